package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"OrtPrepBot/internal/broadcast"
	"OrtPrepBot/internal/config"
	"OrtPrepBot/internal/utils/logger/sl"

	"github.com/revrost/go-openrouter"
)

// Generator produces practice tasks with an LLM and posts them to the
// subject group chats on a schedule.
type Generator struct {
	client   *openrouter.Client
	sender   broadcast.Sender
	model    string
	subjects []config.Subject
	log      *slog.Logger
}

func New(logger *slog.Logger, cfg *config.GeneratorConfig, sender broadcast.Sender) *Generator {
	return &Generator{
		client:   openrouter.NewClient(cfg.APIKey),
		sender:   sender,
		model:    cfg.Model,
		subjects: cfg.Subjects,
		log:      logger,
	}
}

// GenerateAndPost picks a random subject, generates one task for it and posts
// the task to the subject's group chat.
func (g *Generator) GenerateAndPost(ctx context.Context) error {
	op := "tasks.Generator.GenerateAndPost()"
	log := g.log.With(
		slog.String("op", op),
	)

	if len(g.subjects) == 0 {
		return fmt.Errorf("%s: no subjects configured", op)
	}
	subject := g.subjects[rand.IntN(len(g.subjects))]
	log.Info("generating task", slog.String("subject", subject.Name))

	task, err := g.generate(ctx, subject)
	if err != nil {
		log.Error("task generation failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = g.sender.Send(ctx, subject.ChatID, broadcast.Payload{
		Kind: broadcast.PayloadText,
		Text: task,
	})
	if err != nil {
		log.Error("failed to post task",
			slog.Int64("chatID", subject.ChatID),
			sl.Err(err),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("task posted",
		slog.String("subject", subject.Name),
		slog.Int64("chatID", subject.ChatID),
	)
	return nil
}

func (g *Generator) generate(ctx context.Context, subject config.Subject) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model: g.model,
		Messages: []openrouter.ChatCompletionMessage{
			openrouter.SystemMessage(subject.Prompt),
			openrouter.UserMessage("Сгенерируй одно задание с вариантами ответа и разбором решения."),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content.Text, nil
}
