package bot

import (
	"context"

	"pos-bot/internal/models"
	"pos-bot/internal/service"
	"pos-bot/internal/telegram"
)

// Store is the capability set the flows need from the remote data store.
// Satisfied by *store.Store.
type Store interface {
	IsAuthorized(ctx context.Context, telegramID int64) (bool, error)
	UpsertUserInfo(ctx context.Context, telegramID int64, username, fullName string) error
	GetUser(ctx context.Context, telegramID int64) (*models.AuthorizedUser, error)
	ListAuthorizedUsers(ctx context.Context) ([]models.AuthorizedUser, error)
	AddAuthorizedUser(ctx context.Context, telegramID int64, username, fullName *string) error
	DeleteAuthorizedUser(ctx context.Context, telegramID int64) error

	CreateSession(ctx context.Context, startedBy int64) (*models.SaleSession, error)
	GetActiveSession(ctx context.Context) (*models.SaleSession, error)
	GetLastEndedSession(ctx context.Context) (*models.SaleSession, error)
	EndSession(ctx context.Context, id int64) error
	GetSessionByID(ctx context.Context, id int64) (*models.SaleSession, error)
	ListPastSessions(ctx context.Context, limit, offset int) ([]models.SaleSession, error)

	AddInventoryLog(ctx context.Context, sessionID int64, itemName string, quantity int, costPrice *float64) (*models.InventoryLog, error)
	ListInventoryBySession(ctx context.Context, sessionID int64) ([]models.InventoryLog, error)

	CreateOrder(ctx context.Context, sessionID int64, lines []*models.CartLine, total float64, paymentMethod string, createdBy int64) (*models.Order, error)
	ListOrdersBySession(ctx context.Context, sessionID int64, limit, offset int) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	DeleteOrder(ctx context.Context, id int64) error
	CountOrdersBySession(ctx context.Context, sessionID int64) (int, error)
}

// Catalog serves menu reads and writes. Satisfied by *service.Catalog.
type Catalog interface {
	ListActive(ctx context.Context) ([]models.MenuItem, error)
	GetByID(ctx context.Context, id int64) (*models.MenuItem, error)
	Add(ctx context.Context, name, size string, price float64) (*models.MenuItem, error)
	AddSizes(ctx context.Context, name string, sizes []service.SizeEntry) (added, failed int)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateSize(ctx context.Context, id int64, size string) error
	UpdatePrice(ctx context.Context, id int64, price float64) error
	SoftDelete(ctx context.Context, id int64) error
}

// Transport is the outbound chat surface. Satisfied by *telegram.Client.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	EditMessage(ctx context.Context, chatID, messageID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	GetChat(ctx context.Context, chatID int64) (*telegram.Chat, error)
}

// Events is the outbound lifecycle event stream. Satisfied by
// *broker.EventPublisher. May be nil; publishing is best-effort.
type Events interface {
	PublishSessionStarted(ctx context.Context, event *models.SessionStartedEvent) error
	PublishSessionEnded(ctx context.Context, event *models.SessionEndedEvent) error
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error
}
