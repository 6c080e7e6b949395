package telegram

import (
	"context"
	"fmt"

	"OrtPrepBot/internal/ortcalc"
	"OrtPrepBot/internal/utils/logger/sl"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleInlineQuery answers inline calculator queries like
// "@bot 80 90 85" with both score interpretations at once. Out-of-range
// values are clamped instead of rejected so the preview always renders.
func (ortBot *Bot) handleInlineQuery(ctx context.Context, update *models.Update) {
	q := update.InlineQuery

	var results []models.InlineQueryResult

	values, err := ortcalc.ParseScores(q.Query)
	if err != nil {
		results = append(results, &models.InlineQueryResultArticle{
			ID:          "usage",
			Title:       "Калькулятор баллов ОРТ",
			Description: "Введите три числа: математика, чтение, грамматика",
			InputMessageContent: &models.InputTextMessageContent{
				MessageText: "Чтобы посчитать баллы, введите три числа после имени бота, например: 80 90 85",
			},
		})
	} else {
		byPercent, byCorrect := ortcalc.Preview(values)

		percentText := fmt.Sprintf(
			"Баллы ОРТ по процентам (%.0f%%, %.0f%%, %.0f%%):\nМатематика: %d\nЧтение: %d\nГрамматика: %d\nИтого: %d",
			values[0], values[1], values[2],
			byPercent.Math, byPercent.Reading, byPercent.Grammar, byPercent.Total)
		correctText := fmt.Sprintf(
			"Баллы ОРТ по количеству правильных ответов:\nМатематика: %d\nЧтение: %d\nГрамматика: %d\nИтого: %d",
			byCorrect.Math, byCorrect.Reading, byCorrect.Grammar, byCorrect.Total)

		results = append(results,
			&models.InlineQueryResultArticle{
				ID:          "percentage",
				Title:       "По процентам",
				Description: fmt.Sprintf("Итого: %d", byPercent.Total),
				InputMessageContent: &models.InputTextMessageContent{
					MessageText: percentText,
				},
			},
			&models.InlineQueryResultArticle{
				ID:          "correct",
				Title:       "По количеству правильных ответов",
				Description: fmt.Sprintf("Итого: %d", byCorrect.Total),
				InputMessageContent: &models.InputTextMessageContent{
					MessageText: correctText,
				},
			},
		)
	}

	_, err = ortBot.b.AnswerInlineQuery(ctx, &bot.AnswerInlineQueryParams{
		InlineQueryID: q.ID,
		CacheTime:     1,
		Results:       results,
	})
	if err != nil {
		ortBot.log.Warn("failed to answer inline query", sl.Err(err))
	}
}
