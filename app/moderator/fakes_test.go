package moderator

import (
	"context"
	"errors"
	"sync"

	"nuclight.org/unicode-detector-bot/app/ledger"
	"nuclight.org/unicode-detector-bot/app/permissions"
	"nuclight.org/unicode-detector-bot/app/storage"
	e "nuclight.org/unicode-detector-bot/pkg/entities"
	"nuclight.org/unicode-detector-bot/pkg/logger"
)

const testChatID int64 = -1001234567890

type editCall struct {
	ChatID    int64
	MessageID int
	Text      string
}

type answerCall struct {
	CallbackID string
	Text       string
	Alert      bool
}

type restrictCall struct {
	ChatID int64
	UserID int64
	Perms  e.Permissions
}

type fakePlatform struct {
	mu sync.Mutex

	members   map[int64]e.ChatMember
	memberErr error
	admins    []e.ChatMember
	adminsErr error

	sendErr    error
	enforceErr error
	unbanErr   error

	sent      []e.OutgoingMessage
	edits     []editCall
	answers   []answerCall
	bans      []int64
	unbans    []int64
	restricts []restrictCall
	nextID    int

	memberCalls int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		members: make(map[int64]e.ChatMember),
		nextID:  100,
	}
}

func (f *fakePlatform) addMember(m e.ChatMember) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.members[m.User.ID] = m
	if m.IsAdmin() {
		f.admins = append(f.admins, m)
	}
}

func (f *fakePlatform) ChatMember(_ context.Context, _, userID int64) (e.ChatMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.memberCalls++
	if f.memberErr != nil {
		return e.ChatMember{}, f.memberErr
	}

	m, ok := f.members[userID]
	if !ok {
		return e.ChatMember{User: e.User{ID: userID}, Status: e.MemberStatusMember}, nil
	}
	return m, nil
}

func (f *fakePlatform) Administrators(_ context.Context, _ int64) ([]e.ChatMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.admins, f.adminsErr
}

func (f *fakePlatform) SendMessage(_ context.Context, msg e.OutgoingMessage) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return 0, f.sendErr
	}

	f.nextID++
	f.sent = append(f.sent, msg)
	return f.nextID, nil
}

func (f *fakePlatform) EditMessage(_ context.Context, chatID int64, messageID int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.edits = append(f.edits, editCall{ChatID: chatID, MessageID: messageID, Text: text})
	return nil
}

func (f *fakePlatform) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.answers = append(f.answers, answerCall{CallbackID: callbackID, Text: text, Alert: alert})
	return nil
}

func (f *fakePlatform) BanMember(_ context.Context, _, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.enforceErr != nil {
		return f.enforceErr
	}
	f.bans = append(f.bans, userID)
	return nil
}

func (f *fakePlatform) UnbanMember(_ context.Context, _, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.unbanErr != nil {
		return f.unbanErr
	}
	f.unbans = append(f.unbans, userID)
	return nil
}

func (f *fakePlatform) RestrictMember(_ context.Context, chatID, userID int64, perms e.Permissions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.enforceErr != nil {
		return f.enforceErr
	}
	f.restricts = append(f.restricts, restrictCall{ChatID: chatID, UserID: userID, Perms: perms})
	return nil
}

func (f *fakePlatform) enforcementCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.bans) + len(f.unbans) + len(f.restricts)
}

type brokenStore struct{}

var errStoreDown = errors.New("dial tcp 127.0.0.1:6379: connection refused")

func (brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, errStoreDown }
func (brokenStore) Set(context.Context, string, string) error         { return errStoreDown }
func (brokenStore) AddToSet(context.Context, string, string) error    { return errStoreDown }
func (brokenStore) RemoveFromSet(context.Context, string, string) (bool, error) {
	return false, errStoreDown
}
func (brokenStore) IsMember(context.Context, string, string) (bool, error) {
	return false, errStoreDown
}

type fixture struct {
	platform *fakePlatform
	ledger   *ledger.Ledger
	handler  *Handler
}

func newFixture() *fixture {
	return newFixtureWithStore(storage.NewMemory())
}

func newFixtureWithStore(store ledger.Store) *fixture {
	log := logger.Discard()
	platform := newFakePlatform()
	l := ledger.New(store)

	return &fixture{
		platform: platform,
		ledger:   l,
		handler: &Handler{
			Log:      log,
			Platform: platform,
			Ledger:   l,
			Members:  &permissions.Resolver{Log: log, Members: platform},
		},
	}
}

func user(id int64, first string) e.User {
	return e.User{ID: id, FirstName: e.OptionalString(first)}
}

func groupMessage(sender e.User) e.Message {
	return e.Message{
		ID:        1,
		ChatID:    testChatID,
		ChatTitle: "test group",
		Sender:    sender,
		Text:      "hello",
	}
}

var (
	owner = e.ChatMember{
		User:   user(1, "Owner"),
		Status: e.MemberStatusCreator,
	}
	mod = e.ChatMember{
		User:         user(2, "Moderator"),
		Status:       e.MemberStatusAdministrator,
		Capabilities: e.Capabilities{CanRestrictMembers: true},
	}
	infoEditor = e.ChatMember{
		User:         user(3, "Editor"),
		Status:       e.MemberStatusAdministrator,
		Capabilities: e.Capabilities{CanChangeInfo: true, CanDeleteMessages: true},
	}
	helperBot = e.ChatMember{
		User:         e.User{ID: 4, FirstName: e.OptionalString("HelperBot"), IsBot: true},
		Status:       e.MemberStatusAdministrator,
		Capabilities: e.Capabilities{CanRestrictMembers: true, CanDeleteMessages: true},
	}
)

func (fx *fixture) withStaff() *fixture {
	fx.platform.addMember(owner)
	fx.platform.addMember(mod)
	fx.platform.addMember(infoEditor)
	fx.platform.addMember(helperBot)
	return fx
}

func press(presser e.User, data string) e.Callback {
	return e.Callback{
		ID:        "cb-1",
		From:      presser,
		ChatID:    testChatID,
		MessageID: 101,
		Data:      data,
	}
}
