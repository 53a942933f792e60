package service

import (
	"context"
	"fmt"

	"albumsync/infras/otel"
	"albumsync/internal/domains/album/model"
	"albumsync/internal/domains/album/model/dto"
	"albumsync/shared/constant"
	"albumsync/shared/failure"
	"albumsync/shared/timezone"
	"albumsync/shared/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func newFlow(title string) *model.Flow {
	return &model.Flow{
		ID:        uuid.NewString(),
		State:     model.FlowNamePending,
		Title:     title,
		UpdatedAt: timezone.Now(),
	}
}

// BeginCreation opens a creation flow waiting for its album name. Only one flow may be
// open at a time.
func (s *serviceImpl) BeginCreation() (model.Flow, error) {
	var (
		flow *model.Flow
		err  error
	)

	s.update(func() {
		if s.pending != nil || s.active != nil {
			err = failure.Conflict("another album creation is in progress")

			return
		}

		flow = newFlow("")
		s.pending = flow
		s.pendingSubmitted = false
	})

	if err != nil {
		return model.Flow{}, err
	}

	log.Debug().Str("flow", flow.ID).Msg("album creation started")

	return *flow, nil
}

// CancelCreation abandons a flow. Before its gateway calls start the flow returns to
// idle; afterwards it only stops the result from reaching the mirror.
func (s *serviceImpl) CancelCreation(flowID string) error {
	var err error

	s.update(func() {
		switch {
		case s.pending != nil && s.pending.ID == flowID:
			s.pending.Cancelled = true
			s.pending = nil
			s.pendingSubmitted = false
			s.last = model.Flow{State: model.FlowIdle, UpdatedAt: timezone.Now()}
		case s.active != nil && s.active.ID == flowID:
			s.active.Cancelled = true
			s.active.UpdatedAt = timezone.Now()
		default:
			err = failure.Conflict(fmt.Sprintf("album creation %s is not in progress", flowID))
		}
	})

	if err == nil {
		log.Info().Str("flow", flowID).Msg("album creation cancelled")
	}

	return err
}

// SubmitCreation names the pending flow and runs it. An invalid request leaves the flow
// pending so the name can be corrected.
func (s *serviceImpl) SubmitCreation(ctx context.Context, flowID string, req dto.CreateAlbumRequest) (res dto.CreateAlbumResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SubmitCreation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	var flow *model.Flow

	s.update(func() {
		if s.pending == nil || s.pending.ID != flowID || s.pendingSubmitted {
			err = failure.Conflict(fmt.Sprintf("album creation %s is not waiting for a name", flowID))

			return
		}

		flow = s.pending
		flow.Title = req.Title
		flow.UpdatedAt = timezone.Now()
		s.pendingSubmitted = true
	})

	if err != nil {
		return res, err
	}

	return s.submit(ctx, scope, flow, req)
}

// submit waits for the write lock and runs the flow as the single submitting one.
func (s *serviceImpl) submit(ctx context.Context, scope otel.Scope, flow *model.Flow, req dto.CreateAlbumRequest) (dto.CreateAlbumResponse, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cancelled := false

	s.update(func() {
		if flow.Cancelled {
			cancelled = true

			return
		}

		if s.pending == flow {
			s.pending = nil
			s.pendingSubmitted = false
		}

		flow.State = model.FlowSubmitting
		flow.UpdatedAt = timezone.Now()
		s.active = flow
	})

	if cancelled {
		scope.AddEvent(constant.OtelFlowCancelledEvent, map[string]any{constant.OtelFlowIDAttributeKey: flow.ID})

		return dto.CreateAlbumResponse{}, failure.Conflict(fmt.Sprintf("album creation %s was cancelled", flow.ID))
	}

	log.Info().Str("flow", flow.ID).Str("title", req.Title).Int("photos", len(req.Handles)).Msg("creating album")

	res, err := s.create(ctx, flow, req)

	s.update(func() {
		cancelled = flow.Cancelled

		flow.State = model.FlowSucceeded
		if err != nil && !failure.IsPartial(err) {
			flow.State = model.FlowFailed
		}

		if err != nil {
			flow.Error = err.Error()
		}

		flow.UpdatedAt = timezone.Now()
		s.active = nil
		s.last = *flow
	})

	if cancelled {
		scope.AddEvent(constant.OtelFlowCancelledEvent, map[string]any{constant.OtelFlowIDAttributeKey: flow.ID})
	}

	if err != nil {
		log.Error().Err(err).Str("flow", flow.ID).Str("state", string(flow.State)).Msg("album creation finished with errors")
	}

	return res, err
}
