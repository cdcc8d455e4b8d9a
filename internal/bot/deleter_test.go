package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

type fakeCommandAPI struct {
	registered map[string][]*discordgo.ApplicationCommand
	deleted    []string
	deleteErr  error
}

func (f *fakeCommandAPI) ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	return f.registered[guildID], nil
}

func (f *fakeCommandAPI) ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, guildID+"/"+cmdID)
	return nil
}

func newFakeCommandAPI() *fakeCommandAPI {
	return &fakeCommandAPI{
		registered: map[string][]*discordgo.ApplicationCommand{
			"": {
				{ID: "1", Name: "ping"},
				{ID: "2", Name: "pong"},
			},
			"g1": {
				{ID: "3", Name: "ping"},
			},
		},
	}
}

func TestCommandDeleter_Delete(t *testing.T) {
	api := newFakeCommandAPI()
	d := NewCommandDeleter(api, "app", time.Millisecond)

	n, err := d.Delete(context.Background(), "ping", "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deletion, got %d", n)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "g1/3" {
		t.Errorf("expected g1/3 to be deleted, got %v", api.deleted)
	}
}

func TestCommandDeleter_DeleteMissing(t *testing.T) {
	api := newFakeCommandAPI()
	d := NewCommandDeleter(api, "app", time.Millisecond)

	n, err := d.Delete(context.Background(), "missing", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 || len(api.deleted) != 0 {
		t.Errorf("expected nothing deleted, got %d (%v)", n, api.deleted)
	}
}

func TestCommandDeleter_DeleteAll(t *testing.T) {
	api := newFakeCommandAPI()
	d := NewCommandDeleter(api, "app", time.Millisecond)

	n, err := d.DeleteAll(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deletions, got %d", n)
	}
}

func TestCommandDeleter_DeleteAll_StopsOnCancel(t *testing.T) {
	api := newFakeCommandAPI()
	d := NewCommandDeleter(api, "app", time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := d.DeleteAll(ctx, "")
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
	if n != 0 {
		t.Errorf("expected no deletions, got %d", n)
	}
}

func TestCommandDeleter_DeleteError(t *testing.T) {
	api := newFakeCommandAPI()
	api.deleteErr = errors.New("unknown command")
	d := NewCommandDeleter(api, "app", time.Millisecond)

	if _, err := d.Delete(context.Background(), "ping", ""); !errors.Is(err, api.deleteErr) {
		t.Errorf("expected delete error, got %v", err)
	}
}
