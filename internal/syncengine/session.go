package syncengine

import (
	"context"
	"sync"
)

// Session lie un Engine à son Poller pour la durée de vie d'une piste.
// Close doit être appelé quand la piste est remplacée ou le panneau détruit.
type Session struct {
	engine *Engine
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start lance la scrutation dans une goroutine. p.Engine est l'engine de la session.
// Sans engine, la session est déjà terminée : aucune goroutine n'est lancée.
func Start(ctx context.Context, p *Poller) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	if p == nil || p.Engine == nil {
		close(s.done)
		return s
	}
	s.engine = p.Engine
	go func() {
		defer close(s.done)
		_ = p.Run(ctx)
	}()
	return s
}

// Engine renvoie l'engine de la session.
func (s *Session) Engine() *Engine {
	return s.engine
}

// OnManualScroll relaie un défilement manuel vers l'engine.
func (s *Session) OnManualScroll() {
	if s.engine == nil {
		return
	}
	s.engine.OnManualScroll()
}

// Done est fermé lorsque la boucle de scrutation s'est arrêtée.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close arrête la scrutation, attend la fin du tick en cours puis remet l'engine à zéro.
// Idempotent.
func (s *Session) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
		if s.engine != nil {
			s.engine.Reset()
		}
	})
}
