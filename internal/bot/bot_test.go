package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

// trackingStubModule records lifecycle calls.
type trackingStubModule struct {
	stubModule
	calls *[]string
}

func (m *trackingStubModule) LoadConfig() error {
	*m.calls = append(*m.calls, "config:"+m.name)
	return nil
}

func (m *trackingStubModule) Init(deps ModuleDependencies) error {
	*m.calls = append(*m.calls, "init:"+m.name)
	return m.initErr
}

func (m *trackingStubModule) Shutdown() error {
	*m.calls = append(*m.calls, "shutdown:"+m.name)
	return m.shutErr
}

func newTestBot(modules ...Module) *Bot {
	cfg := &Config{Token: "test-token", ClientID: "app"}
	return NewBot(cfg, NewRegistry(modules...), guildconfig.NewStore(memoryRepository{}))
}

func TestNewBot(t *testing.T) {
	b := newTestBot()

	if b == nil {
		t.Fatal("expected bot to be created, got nil")
	}
	if b.cache == nil {
		t.Error("expected default cache")
	}
	if b.reporter == nil {
		t.Error("expected default reporter")
	}
}

func TestBot_InitModules_LoadsConfigBeforeInit(t *testing.T) {
	var calls []string
	b := newTestBot(
		&trackingStubModule{stubModule: stubModule{name: "a"}, calls: &calls},
		&trackingStubModule{stubModule: stubModule{name: "b"}, calls: &calls},
	)

	if err := b.initModules(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"config:a", "init:a", "config:b", "init:b"}
	if len(calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], calls[i])
		}
	}
}

func TestBot_InitModules_ReturnsInitError(t *testing.T) {
	expectedErr := errors.New("init failed")
	b := newTestBot(&stubModule{name: "failing", initErr: expectedErr})

	err := b.initModules()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestBot_Stop_ShutsDownStartedModulesInReverse(t *testing.T) {
	var calls []string
	b := newTestBot(
		&trackingStubModule{stubModule: stubModule{name: "a"}, calls: &calls},
		&trackingStubModule{stubModule: stubModule{name: "b", shutErr: errors.New("busy")}, calls: &calls},
		&trackingStubModule{stubModule: stubModule{name: "c", initErr: errors.New("broken")}, calls: &calls},
	)

	_ = b.initModules()
	calls = nil

	if err := b.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"shutdown:b", "shutdown:a"}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("expected calls %v, got %v", want, calls)
	}
}

func TestBot_AppID(t *testing.T) {
	b := newTestBot()

	if got := b.appID(); got != "app" {
		t.Errorf("expected %q, got %q", "app", got)
	}
}

// gatewayOrderModule records when it is initialized and asked for handlers.
type gatewayOrderModule struct {
	stubModule
	calls  *[]string
	selfID string
}

func (m *gatewayOrderModule) Init(deps ModuleDependencies) error {
	*m.calls = append(*m.calls, "init")
	m.selfID = deps.Session.State.User.ID
	return nil
}

func (m *gatewayOrderModule) EventHandlers() []EventHandler {
	*m.calls = append(*m.calls, "handlers")
	return []EventHandler{func(*discordgo.Session, *discordgo.GuildCreate) {}}
}

func TestBot_Connect_AttachesHandlersBeforeOpen(t *testing.T) {
	var calls []string
	mod := &gatewayOrderModule{stubModule: stubModule{name: "core"}, calls: &calls}
	b := newTestBot(mod)
	b.fetchSelf = func(*discordgo.Session) (*discordgo.User, error) {
		return &discordgo.User{ID: "99", Username: "sparrow"}, nil
	}
	b.openGateway = func(*discordgo.Session) error {
		calls = append(calls, "open")
		return nil
	}

	if err := b.connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"init", "handlers", "open"}
	if len(calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], calls[i])
		}
	}
	if mod.selfID != "99" {
		t.Errorf("expected module to see bot user 99, got %q", mod.selfID)
	}
}

func TestBot_Connect_FetchSelfError(t *testing.T) {
	opened := false
	b := newTestBot()
	b.fetchSelf = func(*discordgo.Session) (*discordgo.User, error) {
		return nil, errors.New("401 Unauthorized")
	}
	b.openGateway = func(*discordgo.Session) error {
		opened = true
		return nil
	}

	if err := b.connect(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if opened {
		t.Error("expected gateway to stay closed")
	}
}
