// Package pipeline drives the two background phases of the product:
// reconciling Canvas records into local storage, and pushing unanalyzed
// submissions through the AI gateway before folding the results into
// candidate insight fields. Every entry point runs under a ProcessingJob
// that the dashboard polls.
package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/MekhyW/Link-AutoJourney/internal/ai"
	"github.com/MekhyW/Link-AutoJourney/internal/batch"
	"github.com/MekhyW/Link-AutoJourney/internal/canvas"
	"github.com/MekhyW/Link-AutoJourney/internal/storage"
)

// Pipeline wires the store, the Canvas client, the AI gateway and the
// shared batch queue together. One instance serves the whole process.
type Pipeline struct {
	store  *storage.Store
	canvas *canvas.Client
	ai     *ai.Client
	queue  *batch.Queue
	log    zerolog.Logger
}

func New(store *storage.Store, cv *canvas.Client, gateway *ai.Client, queue *batch.Queue, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:  store,
		canvas: cv,
		ai:     gateway,
		queue:  queue,
		log:    log.With().Str("component", "pipeline").Logger(),
	}
}
