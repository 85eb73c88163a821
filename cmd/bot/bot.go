package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
	"github.com/Koncii-co/koncii-wander-guide/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sender - часть Telegram Bot API, которой пользуется бот.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type profiles interface {
	SyncProfile(ctx context.Context, id model.Identity) (*model.UserProfile, error)
}

type concierge interface {
	Ask(ctx context.Context, userID, message string) (model.ChatReply, error)
}

type accommodation interface {
	Search(ctx context.Context, userID, location, checkin, checkout string) ([]model.Listing, error)
}

type cart interface {
	AddListing(ctx context.Context, userID string, item service.CartItem) (*model.Trip, error)
	Items(ctx context.Context, userID string) ([]model.Trip, error)
	Checkout(ctx context.Context, userID string) ([]model.Booking, error)
}

type tripLister interface {
	List(ctx context.Context, userID string) ([]model.Trip, error)
}

type bookingLister interface {
	List(ctx context.Context, userID string) ([]model.Booking, error)
}

// bot - Telegram-клиент консьержа поверх тех же сервисов, что и HTTP API.
type bot struct {
	api           sender
	profiles      profiles
	concierge     concierge
	accommodation accommodation
	cart          cart
	trips         tripLister
	bookings      bookingLister
	sessions      *sessionStore
	log           *zap.Logger
}

const helpText = `Я помогу спланировать путешествие.
Просто напишите вопрос, например: "Что посмотреть в Лиссабоне за 3 дня?"

/search <город> <заезд> <выезд> - поиск жилья на Airbnb (даты в формате YYYY-MM-DD)
/cart - корзина
/book - оформить все бронирования из корзины
/trips - мои поездки
/bookings - мои бронирования`

func (b *bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cq := update.CallbackQuery; cq != nil {
		b.handleCallback(ctx, cq)
		return
	}
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	profile, err := b.profile(ctx, msg.From)
	if err != nil {
		b.log.Error("ошибка авторизации", zap.Int64("telegram_id", msg.From.ID), zap.Error(err))
		b.text(msg.Chat.ID, "Ошибка авторизации.")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, profile, msg)
		return
	}
	if strings.TrimSpace(msg.Text) == "" {
		return
	}
	b.api.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping))
	reply, err := b.concierge.Ask(ctx, profile.ID, msg.Text)
	if err != nil {
		b.text(msg.Chat.ID, "Не удалось обработать сообщение.")
		return
	}
	b.sendReply(msg.Chat.ID, reply)
}

func (b *bot) handleCommand(ctx context.Context, profile *model.UserProfile, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		name := "путешественник"
		if profile.Name != nil && *profile.Name != "" {
			name = *profile.Name
		}
		b.text(chatID, fmt.Sprintf("Здравствуйте, %s!\n\n%s", name, helpText))

	case "search":
		location, checkin, checkout, ok := parseSearchArgs(msg.CommandArguments())
		if !ok {
			b.text(chatID, "Используйте: /search <город> <заезд> <выезд>, например /search Lisbon 2025-06-01 2025-06-05")
			return
		}
		b.search(ctx, profile, msg.From.ID, chatID, location, checkin, checkout)

	case "cart":
		items, err := b.cart.Items(ctx, profile.ID)
		if err != nil {
			b.fail(chatID, err)
			return
		}
		if len(items) == 0 {
			b.text(chatID, "Корзина пуста. Найдите жилье командой /search.")
			return
		}
		lines := make([]string, 0, len(items)+1)
		for _, t := range items {
			lines = append(lines, formatTrip(t))
		}
		lines = append(lines, fmt.Sprintf("Итого: $%.2f. Оформить: /book", service.Total(items)))
		b.markdown(chatID, strings.Join(lines, "\n\n"))

	case "book":
		bookings, err := b.cart.Checkout(ctx, profile.ID)
		if errors.Is(err, service.ErrEmptyCart) {
			b.text(chatID, "Корзина пуста.")
			return
		}
		if err != nil {
			b.fail(chatID, err)
			return
		}
		b.sessions.Clear(msg.From.ID)
		b.text(chatID, fmt.Sprintf("Оформлено бронирований: %d. Список: /bookings", len(bookings)))

	case "trips":
		trips, err := b.trips.List(ctx, profile.ID)
		if err != nil {
			b.fail(chatID, err)
			return
		}
		if len(trips) == 0 {
			b.text(chatID, "Поездок пока нет.")
			return
		}
		lines := make([]string, 0, len(trips))
		for _, t := range trips {
			lines = append(lines, formatTrip(t))
		}
		b.markdown(chatID, strings.Join(lines, "\n\n"))

	case "bookings":
		bookings, err := b.bookings.List(ctx, profile.ID)
		if err != nil {
			b.fail(chatID, err)
			return
		}
		if len(bookings) == 0 {
			b.text(chatID, "Бронирований пока нет.")
			return
		}
		lines := make([]string, 0, len(bookings))
		for _, bk := range bookings {
			lines = append(lines, formatBooking(bk))
		}
		b.markdown(chatID, strings.Join(lines, "\n\n"))

	default:
		b.text(chatID, "Неизвестная команда. /help - список команд.")
	}
}

func (b *bot) search(ctx context.Context, profile *model.UserProfile, telegramID, chatID int64, location, checkin, checkout string) {
	listings, err := b.accommodation.Search(ctx, profile.ID, location, checkin, checkout)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	if len(listings) == 0 {
		b.text(chatID, "Ничего не найдено.")
		return
	}
	listings = listings[:min(len(listings), maxListings)]
	b.sessions.Save(telegramID, searchSession{Location: location, Checkin: checkin, Checkout: checkout, Listings: listings})

	lines := make([]string, 0, len(listings))
	buttons := make([][]tgbotapi.InlineKeyboardButton, 0, len(listings))
	for i, l := range listings {
		lines = append(lines, formatListing(i+1, l))
		label := fmt.Sprintf("%d. В корзину", i+1)
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cartPrefix+strconv.Itoa(i)),
		))
	}
	reply := tgbotapi.NewMessage(chatID, strings.Join(lines, "\n\n"))
	reply.DisableWebPagePreview = true
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	b.sendMarkdown(reply)
}

func (b *bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	b.api.Request(tgbotapi.NewCallback(cq.ID, ""))
	if cq.From == nil || cq.Message == nil || !strings.HasPrefix(cq.Data, cartPrefix) {
		return
	}
	chatID := cq.Message.Chat.ID
	index, err := strconv.Atoi(strings.TrimPrefix(cq.Data, cartPrefix))
	if err != nil {
		return
	}
	sess, listing, ok := b.sessions.Listing(cq.From.ID, index)
	if !ok {
		b.text(chatID, "Результаты поиска устарели. Повторите /search.")
		return
	}
	profile, err := b.profile(ctx, cq.From)
	if err != nil {
		b.text(chatID, "Ошибка авторизации.")
		return
	}
	_, err = b.cart.AddListing(ctx, profile.ID, service.CartItem{
		Listing:  listing,
		Location: sess.Location,
		Checkin:  sess.Checkin,
		Checkout: sess.Checkout,
	})
	if err != nil {
		b.fail(chatID, err)
		return
	}
	b.text(chatID, fmt.Sprintf("«%s» добавлено в корзину. Корзина: /cart", listing.Name))
}

func (b *bot) profile(ctx context.Context, u *tgbotapi.User) (*model.UserProfile, error) {
	return b.profiles.SyncProfile(ctx, model.Identity{
		Subject:   "telegram|" + strconv.FormatInt(u.ID, 10),
		Name:      strings.TrimSpace(u.FirstName + " " + u.LastName),
		Nickname:  u.UserName,
		GivenName: u.FirstName,
	})
}

// sendReply отправляет текстовые сегменты как Markdown, а каждое место - отдельной карточкой с точкой на карте.
func (b *bot) sendReply(chatID int64, reply model.ChatReply) {
	for _, seg := range reply.Segments {
		switch seg.Kind {
		case model.SegmentText:
			b.markdown(chatID, seg.Text)
		case model.SegmentPlaces:
			for _, p := range seg.Places {
				b.markdown(chatID, formatPlace(p))
				if p.Coordinates != nil {
					b.send(tgbotapi.NewLocation(chatID, p.Coordinates.Lat, p.Coordinates.Lng))
				}
			}
		}
	}
}

func (b *bot) fail(chatID int64, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		b.text(chatID, "Проверьте данные: "+err.Error())
	case errors.Is(err, service.ErrUpstream):
		b.log.Warn("сбой сервиса поиска", zap.Error(err))
		b.text(chatID, "Сервис поиска временно недоступен. Попробуйте позже.")
	default:
		b.log.Error("ошибка обработки команды", zap.Error(err))
		b.text(chatID, "Что-то пошло не так. Попробуйте позже.")
	}
}

func (b *bot) text(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *bot) markdown(chatID int64, text string) {
	for _, part := range splitMessage(text, maxMessageLen) {
		b.sendMarkdown(tgbotapi.NewMessage(chatID, part))
	}
}

// sendMarkdown отправляет сообщение с разметкой Markdown, а при ошибке разбора - простым текстом.
func (b *bot) sendMarkdown(msg tgbotapi.MessageConfig) {
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		// разметка от внешних сервисов бывает некорректной - повторяем простым текстом
		b.log.Debug("не удалось отправить Markdown", zap.Error(err))
		msg.ParseMode = ""
		b.send(msg)
	}
}

func (b *bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.Warn("не удалось отправить сообщение", zap.Error(err))
	}
}
