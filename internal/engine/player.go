// Package engine tracks a learner's consumption of a training module and
// administers timed quizzes. It owns every timer it starts and exposes an
// explicit stop for each, called deterministically on navigation away.
package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"starcomm_training_client/internal/client"
	"starcomm_training_client/internal/config"
	"starcomm_training_client/internal/model"
	"starcomm_training_client/internal/util"

	"go.uber.org/zap"
)

// ProgressState is the lifecycle of a module/employee pair.
type ProgressState string

const (
	StateNotStarted ProgressState = "not_started"
	StateInProgress ProgressState = "in_progress"
	StateCompleted  ProgressState = "completed"
)

// Player tracks viewing position for one open module and autosaves it. For
// media modules the position is playback seconds against a total duration;
// for text modules it is a scroll percentage kept as a running maximum.
type Player struct {
	mu  sync.Mutex
	api *client.Client
	log *zap.Logger

	autosaveEvery time.Duration

	employeeID uint
	module     *model.TrainingModule
	position   float64
	duration   float64 // seconds; 0 means text-style content
	completed  bool
	notes      string

	stopAutosave chan struct{}
}

func NewPlayer(api *client.Client, cfg *config.Config, log *zap.Logger) *Player {
	return &Player{
		api:           api,
		log:           log,
		autosaveEvery: cfg.Progress.AutosaveInterval,
	}
}

// Open loads the module, its saved progress and saved notes. Progress and
// notes load failures are non-fatal: playback starts from zero and the
// learner keeps working. A missing module is fatal and maps to
// util.ErrModuleNotFound.
func (p *Player) Open(ctx context.Context, employeeID, moduleID uint) error {
	module, err := p.api.LoadModule(ctx, employeeID, moduleID)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrModuleNotFound, err)
	}

	p.mu.Lock()
	p.employeeID = employeeID
	p.module = module
	p.position = 0
	p.completed = false
	p.notes = ""
	p.duration = 0
	p.mu.Unlock()

	if module.VideoURL != "" {
		p.resolveDuration(module)
	}

	if records, err := p.api.LoadProgress(ctx, employeeID); err != nil {
		p.log.Warn("failed to load saved progress", zap.Uint("module", moduleID), zap.Error(err))
	} else {
		for _, record := range records {
			if record.ModuleID == moduleID {
				p.mu.Lock()
				p.position = record.LastPosition
				p.completed = record.Completed
				p.mu.Unlock()
				break
			}
		}
	}

	if notes, err := p.api.LoadNotes(ctx, employeeID, moduleID); err != nil {
		p.log.Warn("failed to load notes", zap.Uint("module", moduleID), zap.Error(err))
	} else {
		p.mu.Lock()
		p.notes = notes
		p.mu.Unlock()
	}

	return nil
}

// resolveDuration prefers the module's declared length and falls back to
// probing the media itself. A failed probe leaves duration at the declared
// value; progress then rides on whatever we have.
func (p *Player) resolveDuration(module *model.TrainingModule) {
	duration := float64(module.DurationMinutes) * 60
	if info, err := util.ProbeVideo(module.VideoURL); err != nil {
		p.log.Debug("media probe failed, using declared duration",
			zap.String("url", module.VideoURL), zap.Error(err))
	} else if info.Duration > 0 {
		duration = info.Duration
	}
	p.mu.Lock()
	p.duration = duration
	p.mu.Unlock()
}

func (p *Player) Module() *model.TrainingModule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.module
}

func (p *Player) Notes() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notes
}

// UpdatePosition records a playback position in seconds for media content.
// Updates are idempotent: repeating the same position changes nothing.
func (p *Player) UpdatePosition(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	p.position = seconds
}

// UpdateScroll records a scroll percentage for text content. The stored
// value is the running maximum for the session and never decreases.
func (p *Player) UpdateScroll(percent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = math.Max(p.position, math.Min(math.Max(percent, 0), 100))
}

// Progress returns the unrounded completion percentage in [0,100]. Rounding
// happens only at display time.
func (p *Player) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progressLocked()
}

func (p *Player) progressLocked() float64 {
	if p.duration > 0 {
		return math.Min(math.Max(100*p.position/p.duration, 0), 100)
	}
	return p.position
}

// State derives the progress lifecycle. Completed is terminal: re-opening a
// completed module never clears the flag locally.
func (p *Player) State() ProgressState {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.completed:
		return StateCompleted
	case p.position > 0:
		return StateInProgress
	default:
		return StateNotStarted
	}
}

// StartAutosave begins the periodic background save. Call StopAutosave (or
// Close) before tearing the screen down.
func (p *Player) StartAutosave(ctx context.Context) {
	p.mu.Lock()
	if p.stopAutosave != nil {
		p.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	p.stopAutosave = stop
	p.mu.Unlock()

	go func() {
		ticker := time.NewTicker(p.autosaveEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				p.autosave(ctx)
			}
		}
	}()
}

func (p *Player) StopAutosave() {
	p.mu.Lock()
	if p.stopAutosave != nil {
		close(p.stopAutosave)
		p.stopAutosave = nil
	}
	p.mu.Unlock()
}

// autosave persists the current record. Failures are logged and swallowed:
// the next tick is the retry. Playback must never stall on a save.
func (p *Player) autosave(ctx context.Context) {
	if err := p.save(ctx); err != nil {
		p.log.Warn("progress autosave failed", zap.Error(err))
	}
}

func (p *Player) save(ctx context.Context) error {
	p.mu.Lock()
	if p.module == nil {
		p.mu.Unlock()
		return nil
	}
	employeeID, moduleID := p.employeeID, p.module.ID
	progress := p.progressLocked()
	position := p.position
	p.mu.Unlock()

	now := time.Now()
	return p.api.SaveProgress(ctx, employeeID, moduleID, model.ProgressUpdate{
		Progress:     &progress,
		LastPosition: &position,
		LastAccessed: &now,
	})
}

// Save persists progress on explicit user request. Unlike autosave, the
// error is surfaced so the caller can offer a retry.
func (p *Player) Save(ctx context.Context) error {
	return p.save(ctx)
}

// MarkComplete records terminal completion for the module.
func (p *Player) MarkComplete(ctx context.Context) error {
	p.mu.Lock()
	if p.module == nil {
		p.mu.Unlock()
		return util.ErrModuleNotFound
	}
	employeeID, moduleID := p.employeeID, p.module.ID
	p.mu.Unlock()

	now := time.Now()
	progress := 100.0
	completed := true
	err := p.api.SaveProgress(ctx, employeeID, moduleID, model.ProgressUpdate{
		Progress:    &progress,
		Completed:   &completed,
		CompletedAt: &now,
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.completed = true
	p.mu.Unlock()
	return nil
}

// SaveNotes persists the note text. Explicit action, so errors surface.
func (p *Player) SaveNotes(ctx context.Context, notes string) error {
	p.mu.Lock()
	if p.module == nil {
		p.mu.Unlock()
		return util.ErrModuleNotFound
	}
	employeeID, moduleID := p.employeeID, p.module.ID
	p.notes = notes
	p.mu.Unlock()

	return p.api.SaveNotes(ctx, employeeID, moduleID, notes)
}

// Close stops the autosave timer and flushes a final progress and notes
// save. Flush failures are logged only: navigation away must never block.
func (p *Player) Close(ctx context.Context) {
	p.StopAutosave()

	if err := p.save(ctx); err != nil {
		p.log.Warn("final progress save failed", zap.Error(err))
	}

	p.mu.Lock()
	module, notes := p.module, p.notes
	employeeID := p.employeeID
	p.mu.Unlock()
	if module != nil && notes != "" {
		if err := p.api.SaveNotes(ctx, employeeID, module.ID, notes); err != nil {
			p.log.Warn("final notes save failed", zap.Error(err))
		}
	}
}
