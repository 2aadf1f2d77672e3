package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/astroluna/astroluna/internal/application/chart"
	"github.com/astroluna/astroluna/internal/domain/birth"
	"github.com/astroluna/astroluna/internal/interfaces/render"
)

// User-facing texts. The wording is part of the product, do not "fix" it.
const (
	greeting         = "Привет! Я AstroLuna — выбери действие:"
	menuText         = "Меню:"
	chooseText       = "Выберите:"
	fallbackText     = "Нажми /start и выбери действие (Натальная карта или Синастрия)."
	promptNatal      = "Отправь одну строку: `Имя, ДД.MM.YYYY, HH:MM, Город`"
	promptSynFirst   = "Синастрия: отправь данные для первого человека:\n`Имя, ДД.MM.YYYY, HH:MM, Город`"
	promptSynSecond  = "Ок. Теперь отправь данные для второго человека (в том же формате)."
	errNoFirstPerson = "⚠️ Не найдены данные первого человека. Начни заново."

	prefixChartError    = "⚠️ Ошибка при расчёте карты: "
	prefixFormatError   = "⚠️ Неверный формат: "
	prefixSynastryError = "⚠️ Ошибка при расчёте синастрии: "

	callbackNatal    = "mode_natal"
	callbackSynastry = "mode_synastry"
	callbackMenu     = "menu"
)

func mainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔮 Натальная карта", callbackNatal)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💞 Синастрия", callbackSynastry)),
	)
}

func repeatKeyboard(again string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Сделать ещё", again)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", callbackMenu)),
	)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Command() != "start" {
		log.Debug().Str("command", msg.Command()).Msg("ignoring unknown command")
		return
	}
	b.clear(msg.Chat.ID)
	b.keyboard(ctx, msg.Chat.ID, greeting, mainKeyboard())
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := b.client.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Debug().Err(err).Msg("callback ack failed")
	}
	if q.Message == nil {
		return
	}
	chatID := q.Message.Chat.ID

	switch q.Data {
	case callbackNatal:
		b.clear(chatID)
		b.setMode(chatID, session{mode: modeNatal})
		b.markdown(ctx, chatID, promptNatal)
	case callbackSynastry:
		b.clear(chatID)
		b.setMode(chatID, session{mode: modeSynastryFirst})
		b.markdown(ctx, chatID, promptSynFirst)
	case callbackMenu:
		b.clear(chatID)
		b.keyboard(ctx, chatID, menuText, mainKeyboard())
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	sess := b.sessions.get(chatID)

	switch sess.mode {
	case modeNatal:
		b.runNatal(ctx, chatID, text)
	case modeSynastryFirst:
		b.runSynastryFirst(ctx, chatID, text)
	case modeSynastrySecond:
		b.runSynastrySecond(ctx, chatID, text, sess.first)
	default:
		b.text(ctx, chatID, fallbackText)
	}
}

// runNatal computes and delivers one natal chart. Any failure, including a
// failed send, ends the dialog with the chart error text.
func (b *Bot) runNatal(ctx context.Context, chatID int64, line string) {
	rec, err := birth.Parse(line)
	var c *chart.Chart
	if err == nil {
		c, err = b.charts.Compute(ctx, rec)
	}
	var png []byte
	if err == nil {
		png, err = b.wheel.Natal(c)
	}
	if err == nil {
		err = b.deliver(ctx, chatID, png, render.NatalReport(c))
	}
	if err != nil {
		b.clear(chatID)
		b.text(ctx, chatID, prefixChartError+render.UserError(err))
		return
	}
	b.keyboard(ctx, chatID, chooseText, repeatKeyboard(callbackNatal))
	b.clear(chatID)
}

// runSynastryFirst stores person A. A bad line keeps the dialog open so the
// user can retry.
func (b *Bot) runSynastryFirst(ctx context.Context, chatID int64, line string) {
	rec, err := birth.Parse(line)
	if err != nil {
		b.text(ctx, chatID, prefixFormatError+render.UserError(err))
		return
	}
	b.setMode(chatID, session{mode: modeSynastrySecond, first: &rec})
	b.text(ctx, chatID, promptSynSecond)
}

func (b *Bot) runSynastrySecond(ctx context.Context, chatID int64, line string, first *birth.Record) {
	recB, err := birth.Parse(line)
	if err != nil {
		b.clear(chatID)
		b.text(ctx, chatID, prefixSynastryError+render.UserError(err))
		return
	}
	if first == nil {
		b.text(ctx, chatID, errNoFirstPerson)
		b.clear(chatID)
		return
	}

	syn, err := b.charts.Synastry(ctx, *first, recB)
	var png []byte
	if err == nil {
		png, err = b.wheel.Synastry(syn)
	}
	if err == nil {
		err = b.deliver(ctx, chatID, png, render.SynastryReport(syn))
	}
	if err != nil {
		b.clear(chatID)
		b.text(ctx, chatID, prefixSynastryError+render.UserError(err))
		return
	}
	b.keyboard(ctx, chatID, chooseText, repeatKeyboard(callbackSynastry))
	b.clear(chatID)
}

// deliver sends the wheel image, then the report in caption-sized chunks.
func (b *Bot) deliver(ctx context.Context, chatID int64, png []byte, report string) error {
	if err := b.photo(ctx, chatID, png); err != nil {
		return err
	}
	for _, chunk := range chunkRunes(report, b.caption) {
		if err := b.markdown(ctx, chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}
