package handler

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"video-subtitles/dto"
	"video-subtitles/service"
)

type ServiceDependencies struct {
	PipelineService service.Service
}

func JobHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var job dto.JobMessage
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal job message")
		return err
	}

	return deps.PipelineService.Process(ctx, job)
}
