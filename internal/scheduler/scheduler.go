package scheduler

import (
	"context"
	"time"

	"gotariff/internal/domain"
	"gotariff/internal/pkg/logger"
)

// CycleRunner define o contrato que o Scheduler espera do orquestrador.
type CycleRunner interface {
	RunCycle(ctx context.Context, today string)
}

// Scheduler dispara o ciclo de sincronização: uma vez imediatamente na
// subida do processo e depois em cada fronteira do intervalo configurado
// (com o intervalo padrão de 1h, nos minutos zero de cada hora, como o
// cron "0 * * * *" do qual este serviço se originou).
//
// Os ciclos rodam em série, dentro da própria goroutine de agendamento: um
// ciclo que atravesse a fronteira seguinte apenas atrasa o próximo disparo,
// nunca roda em paralelo com ele. O upsert tornaria a sobreposição inofensiva,
// mas serializar simplifica o raciocínio e os logs.
type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	logger   logger.Logger
	now      func() time.Time
}

// NewScheduler cria e retorna uma nova instância do Scheduler.
func NewScheduler(runner CycleRunner, interval time.Duration, log logger.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   log,
		now:      time.Now,
	}
}

// Run executa o laço de agendamento até o contexto ser cancelado.
// No cancelamento, nenhum ciclo novo é disparado; um ciclo em andamento
// termina normalmente (não há risco de escrita parcial em deixá-lo concluir).
func (s *Scheduler) Run(ctx context.Context) {
	// Primeiro ciclo imediato na subida do processo.
	s.fire()

	for {
		next := NextBoundary(s.now(), s.interval)
		timer := time.NewTimer(next.Sub(s.now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("🛑 Scheduler encerrado.", nil)
			return
		case <-timer.C:
			s.logger.Info("⏰ Disparo agendado do ciclo.", map[string]interface{}{
				"boundary": next.Format(time.RFC3339),
			})
			s.fire()
		}
	}
}

// fire executa um ciclo para a data corrente. O ciclo roda com um contexto
// próprio, não derivado do contexto de agendamento: no shutdown o ciclo em
// andamento termina normalmente em vez de ter seu I/O abortado no meio.
func (s *Scheduler) fire() {
	today := s.now().Format(domain.DateLayout)
	s.runner.RunCycle(context.Background(), today)
}

// NextBoundary calcula a próxima fronteira do intervalo após now.
// Para interval = 1h, é o próximo minuto zero de hora cheia.
func NextBoundary(now time.Time, interval time.Duration) time.Time {
	return now.Truncate(interval).Add(interval)
}
