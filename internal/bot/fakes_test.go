package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pos-bot/internal/models"
	"pos-bot/internal/service"
	"pos-bot/internal/telegram"
)

// fakeStore is an in-memory Store for flow tests
type fakeStore struct {
	authorized map[int64]bool
	users      map[int64]*models.AuthorizedUser

	activeSession *models.SaleSession
	pastSessions  []models.SaleSession
	inventory     map[int64][]models.InventoryLog

	orders     []*models.Order
	orderItems map[int64][]models.OrderItem

	nextSessionID int64
	nextOrderID   int64

	createSessionCalls int
	createSessionErr   error
	createOrderCalls   int
	createOrderErr     error
}

func newFakeStore(authorized ...int64) *fakeStore {
	s := &fakeStore{
		authorized: make(map[int64]bool),
		users:      make(map[int64]*models.AuthorizedUser),
		inventory:  make(map[int64][]models.InventoryLog),
		orderItems: make(map[int64][]models.OrderItem),
	}
	for _, id := range authorized {
		s.authorized[id] = true
		s.users[id] = &models.AuthorizedUser{TelegramID: id}
	}
	return s
}

func (s *fakeStore) IsAuthorized(ctx context.Context, telegramID int64) (bool, error) {
	return s.authorized[telegramID], nil
}

func (s *fakeStore) UpsertUserInfo(ctx context.Context, telegramID int64, username, fullName string) error {
	return nil
}

func (s *fakeStore) GetUser(ctx context.Context, telegramID int64) (*models.AuthorizedUser, error) {
	return s.users[telegramID], nil
}

func (s *fakeStore) ListAuthorizedUsers(ctx context.Context) ([]models.AuthorizedUser, error) {
	users := make([]models.AuthorizedUser, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	return users, nil
}

func (s *fakeStore) AddAuthorizedUser(ctx context.Context, telegramID int64, username, fullName *string) error {
	s.authorized[telegramID] = true
	s.users[telegramID] = &models.AuthorizedUser{
		TelegramID: telegramID,
		Username:   username,
		FullName:   fullName,
		CreatedAt:  time.Now(),
	}
	return nil
}

func (s *fakeStore) DeleteAuthorizedUser(ctx context.Context, telegramID int64) error {
	if !s.authorized[telegramID] {
		return errors.New("user not found")
	}
	delete(s.authorized, telegramID)
	delete(s.users, telegramID)
	return nil
}

func (s *fakeStore) CreateSession(ctx context.Context, startedBy int64) (*models.SaleSession, error) {
	s.createSessionCalls++
	if s.createSessionErr != nil {
		return nil, s.createSessionErr
	}
	if s.activeSession != nil {
		return nil, errors.New("active session already exists")
	}
	s.nextSessionID++
	s.activeSession = &models.SaleSession{
		ID:        s.nextSessionID,
		StartedBy: startedBy,
		StartedAt: time.Now(),
		Status:    models.SessionStatusActive,
	}
	return s.activeSession, nil
}

func (s *fakeStore) GetActiveSession(ctx context.Context) (*models.SaleSession, error) {
	return s.activeSession, nil
}

func (s *fakeStore) GetLastEndedSession(ctx context.Context) (*models.SaleSession, error) {
	if len(s.pastSessions) == 0 {
		return nil, nil
	}
	return &s.pastSessions[len(s.pastSessions)-1], nil
}

func (s *fakeStore) EndSession(ctx context.Context, id int64) error {
	if s.activeSession == nil || s.activeSession.ID != id {
		return errors.New("active session not found")
	}
	now := time.Now()
	s.activeSession.Status = models.SessionStatusEnded
	s.activeSession.EndedAt = &now
	s.pastSessions = append(s.pastSessions, *s.activeSession)
	s.activeSession = nil
	return nil
}

func (s *fakeStore) GetSessionByID(ctx context.Context, id int64) (*models.SaleSession, error) {
	if s.activeSession != nil && s.activeSession.ID == id {
		return s.activeSession, nil
	}
	for i := range s.pastSessions {
		if s.pastSessions[i].ID == id {
			return &s.pastSessions[i], nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListPastSessions(ctx context.Context, limit, offset int) ([]models.SaleSession, error) {
	if offset >= len(s.pastSessions) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.pastSessions) {
		end = len(s.pastSessions)
	}
	return s.pastSessions[offset:end], nil
}

func (s *fakeStore) AddInventoryLog(ctx context.Context, sessionID int64, itemName string, quantity int, costPrice *float64) (*models.InventoryLog, error) {
	entry := models.InventoryLog{
		ID:        int64(len(s.inventory[sessionID]) + 1),
		SessionID: sessionID,
		ItemName:  itemName,
		Quantity:  quantity,
		CostPrice: costPrice,
	}
	s.inventory[sessionID] = append(s.inventory[sessionID], entry)
	return &entry, nil
}

func (s *fakeStore) ListInventoryBySession(ctx context.Context, sessionID int64) ([]models.InventoryLog, error) {
	return s.inventory[sessionID], nil
}

func (s *fakeStore) CreateOrder(ctx context.Context, sessionID int64, lines []*models.CartLine, total float64, paymentMethod string, createdBy int64) (*models.Order, error) {
	s.createOrderCalls++
	if s.createOrderErr != nil {
		return nil, s.createOrderErr
	}
	if s.activeSession == nil || s.activeSession.ID != sessionID {
		return nil, sql.ErrNoRows
	}

	s.nextOrderID++
	order := &models.Order{
		ID:            s.nextOrderID,
		SessionID:     sessionID,
		OrderNumber:   len(s.ordersFor(sessionID)) + 1,
		TotalAmount:   total,
		PaymentMethod: paymentMethod,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now(),
	}
	s.orders = append(s.orders, order)
	for _, line := range lines {
		s.orderItems[order.ID] = append(s.orderItems[order.ID], models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Size:       line.Size,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
		})
	}
	s.activeSession.TotalSales += total
	return order, nil
}

func (s *fakeStore) ordersFor(sessionID int64) []*models.Order {
	var out []*models.Order
	for _, o := range s.orders {
		if o.SessionID == sessionID {
			out = append(out, o)
		}
	}
	return out
}

func (s *fakeStore) ListOrdersBySession(ctx context.Context, sessionID int64, limit, offset int) ([]models.Order, error) {
	all := s.ordersFor(sessionID)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]models.Order, 0, end-offset)
	for _, o := range all[offset:end] {
		out = append(out, *o)
	}
	return out, nil
}

func (s *fakeStore) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return s.orderItems[orderID], nil
}

func (s *fakeStore) DeleteOrder(ctx context.Context, id int64) error {
	for i, o := range s.orders {
		if o.ID == id {
			if s.activeSession != nil && s.activeSession.ID == o.SessionID {
				s.activeSession.TotalSales -= o.TotalAmount
			}
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			delete(s.orderItems, id)
			return nil
		}
	}
	return errors.New("order not found")
}

func (s *fakeStore) CountOrdersBySession(ctx context.Context, sessionID int64) (int, error) {
	return len(s.ordersFor(sessionID)), nil
}

// fakeCatalog is an in-memory Catalog for flow tests
type fakeCatalog struct {
	items  []models.MenuItem
	nextID int64

	addSizesName string
	addSizes     []service.SizeEntry
}

func newFakeCatalog(items ...models.MenuItem) *fakeCatalog {
	c := &fakeCatalog{items: items}
	for _, item := range items {
		if item.ID > c.nextID {
			c.nextID = item.ID
		}
	}
	return c
}

func (c *fakeCatalog) ListActive(ctx context.Context) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, item := range c.items {
		if item.Active {
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	for i := range c.items {
		if c.items[i].ID == id {
			return &c.items[i], nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) Add(ctx context.Context, name, size string, price float64) (*models.MenuItem, error) {
	c.nextID++
	item := models.MenuItem{ID: c.nextID, Name: name, Size: size, Price: price, Active: true}
	c.items = append(c.items, item)
	return &item, nil
}

func (c *fakeCatalog) AddSizes(ctx context.Context, name string, sizes []service.SizeEntry) (added, failed int) {
	c.addSizesName = name
	c.addSizes = sizes
	for _, s := range sizes {
		_, _ = c.Add(ctx, name, s.Label, s.Price)
	}
	return len(sizes), 0
}

func (c *fakeCatalog) UpdateName(ctx context.Context, id int64, name string) error {
	return c.update(id, func(item *models.MenuItem) { item.Name = name })
}

func (c *fakeCatalog) UpdateSize(ctx context.Context, id int64, size string) error {
	return c.update(id, func(item *models.MenuItem) { item.Size = size })
}

func (c *fakeCatalog) UpdatePrice(ctx context.Context, id int64, price float64) error {
	return c.update(id, func(item *models.MenuItem) { item.Price = price })
}

func (c *fakeCatalog) SoftDelete(ctx context.Context, id int64) error {
	return c.update(id, func(item *models.MenuItem) { item.Active = false })
}

func (c *fakeCatalog) update(id int64, apply func(*models.MenuItem)) error {
	for i := range c.items {
		if c.items[i].ID == id {
			apply(&c.items[i])
			return nil
		}
	}
	return errors.New("menu item not found")
}

// fakeTransport records outbound messages in delivery order
type fakeTransport struct {
	outbound     []string
	sent         []string
	edited       []string
	callbacks    []string
	lastKeyboard *telegram.InlineKeyboardMarkup
	chatErr      error
	chatResult   *telegram.Chat
}

func (t *fakeTransport) SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error {
	t.sent = append(t.sent, text)
	t.outbound = append(t.outbound, text)
	t.lastKeyboard = keyboard
	return nil
}

func (t *fakeTransport) EditMessage(ctx context.Context, chatID, messageID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error {
	t.edited = append(t.edited, text)
	t.outbound = append(t.outbound, text)
	t.lastKeyboard = keyboard
	return nil
}

func (t *fakeTransport) AnswerCallback(ctx context.Context, callbackID, text string) error {
	t.callbacks = append(t.callbacks, text)
	return nil
}

func (t *fakeTransport) GetChat(ctx context.Context, chatID int64) (*telegram.Chat, error) {
	if t.chatErr != nil {
		return nil, t.chatErr
	}
	if t.chatResult != nil {
		return t.chatResult, nil
	}
	return &telegram.Chat{ID: chatID}, nil
}

// lastText returns the most recent outbound text, edited or sent
func (t *fakeTransport) lastText() string {
	if len(t.outbound) == 0 {
		return ""
	}
	return t.outbound[len(t.outbound)-1]
}

// lastCallbacks flattens the callback data of the most recent keyboard
func (t *fakeTransport) lastCallbacks() []string {
	if t.lastKeyboard == nil {
		return nil
	}
	var data []string
	for _, row := range t.lastKeyboard.InlineKeyboard {
		for _, button := range row {
			data = append(data, button.CallbackData)
		}
	}
	return data
}

// update construction helpers

var deliverySeq int64

func tapUpdate(userID int64, data string) *telegram.Update {
	deliverySeq++
	return &telegram.Update{
		UpdateID: deliverySeq,
		CallbackQuery: &telegram.CallbackQuery{
			ID:   fmt.Sprintf("cb-%d", deliverySeq),
			From: telegram.User{ID: userID, FirstName: "Tester"},
			Message: &telegram.Message{
				MessageID: 1,
				Chat:      telegram.Chat{ID: userID},
			},
			Data: data,
		},
	}
}

func textUpdate(userID int64, text string) *telegram.Update {
	deliverySeq++
	return &telegram.Update{
		UpdateID: deliverySeq,
		Message: &telegram.Message{
			MessageID: deliverySeq,
			From:      &telegram.User{ID: userID, FirstName: "Tester"},
			Chat:      telegram.Chat{ID: userID},
			Text:      text,
		},
	}
}
