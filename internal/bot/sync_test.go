package bot

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type overwriteCall struct {
	AppID    string
	GuildID  string
	Commands []*discordgo.ApplicationCommand
}

type fakeOverwriter struct {
	calls []overwriteCall
	fail  map[string]error
}

func (f *fakeOverwriter) ApplicationCommandBulkOverwrite(
	appID string,
	guildID string,
	commands []*discordgo.ApplicationCommand,
	options ...discordgo.RequestOption,
) ([]*discordgo.ApplicationCommand, error) {
	f.calls = append(f.calls, overwriteCall{AppID: appID, GuildID: guildID, Commands: commands})
	if err := f.fail[guildID]; err != nil {
		return nil, err
	}
	return commands, nil
}

func names(cmds []*discordgo.ApplicationCommand) []string {
	result := make([]string, len(cmds))
	for i, c := range cmds {
		result[i] = c.Name
	}
	return result
}

func guildCommand(name, guildID string) *Command {
	cmd := newCommand(name)
	cmd.GuildID = guildID
	return cmd
}

func TestBuildPartitions(t *testing.T) {
	disabled := newCommand("hidden")
	disabled.Disabled = true

	cmds := []*Command{
		guildCommand("b-guild", "200"),
		newCommand("ping"),
		guildCommand("a-guild", "100"),
		disabled,
		newCommand("pong"),
		guildCommand("b-guild-2", "200"),
	}

	partitions := BuildPartitions(cmds)

	got := make(map[string][]string)
	order := make([]string, 0, len(partitions))
	for _, p := range partitions {
		got[p.GuildID] = names(p.Commands)
		order = append(order, p.GuildID)
	}

	wantOrder := []string{"", "100", "200"}
	if diff := cmp.Diff(wantOrder, order); diff != "" {
		t.Errorf("partition order mismatch (-want +got):\n%s", diff)
	}
	want := map[string][]string{
		"":    {"ping", "pong"},
		"100": {"a-guild"},
		"200": {"b-guild", "b-guild-2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partition mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPartitions_Deterministic(t *testing.T) {
	cmds := []*Command{
		guildCommand("one", "3"),
		guildCommand("two", "1"),
		guildCommand("three", "2"),
		newCommand("global"),
	}

	first := BuildPartitions(cmds)
	second := BuildPartitions(cmds)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("expected identical payloads (-first +second):\n%s", diff)
	}
}

func TestBuildPartitions_DoesNotMutateDefinitions(t *testing.T) {
	cmd := newCommand(ConfigCommandName)
	cmd.Definition.Options = []*discordgo.ApplicationCommandOption{
		{
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Name: "set",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "setting"},
			},
		},
	}

	partitions := BuildPartitions([]*Command{cmd})

	if cmd.Definition.Options[0].Options[0].Choices != nil {
		t.Error("expected original definition to keep no choices")
	}
	if cmd.Definition.DMPermission != nil {
		t.Error("expected original definition to keep no DM permission")
	}
	setting := partitions[0].Commands[0].Options[0].Options[0]
	if len(setting.Choices) != len(guildconfig.ListedEntries()) {
		t.Errorf("expected %d choices, got %d", len(guildconfig.ListedEntries()), len(setting.Choices))
	}
}

func TestBuildPartitions_ConfigChoices(t *testing.T) {
	cmd := newCommand(ConfigCommandName)
	cmd.Definition.Options = []*discordgo.ApplicationCommandOption{
		{
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Name: "get",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "setting"},
			},
		},
	}

	choices := BuildPartitions([]*Command{cmd})[0].Commands[0].Options[0].Options[0].Choices

	for i, e := range guildconfig.ListedEntries() {
		if choices[i].Name != e.Name || choices[i].Value != string(e.Key) {
			t.Errorf("choice %d: expected %s=%s, got %s=%v", i, e.Name, e.Key, choices[i].Name, choices[i].Value)
		}
	}
	for _, c := range choices {
		if c.Value == string(guildconfig.KeyOsuTrackedPlayers) {
			t.Error("expected disabled entries to be left out")
		}
	}
}

func TestBuildPartitions_ContextMenuHasNoDescription(t *testing.T) {
	cmd := &Command{
		Definition: &discordgo.ApplicationCommand{
			Name:        "Report Message",
			Type:        discordgo.MessageApplicationCommand,
			Description: "should be dropped",
		},
		Handler: noopHandler,
	}

	payload := BuildPartitions([]*Command{cmd})[0].Commands[0]

	if payload.Description != "" {
		t.Errorf("expected empty description, got %q", payload.Description)
	}
	if cmd.Definition.Description != "should be dropped" {
		t.Error("expected original definition to be untouched")
	}
}

func TestBuildPartitions_DMPermission(t *testing.T) {
	dm := newCommand("coinflip")
	dm.DMAllowed = true
	guildOnly := newCommand("kick")

	cmds := BuildPartitions([]*Command{dm, guildOnly})[0].Commands

	if cmds[0].DMPermission == nil || !*cmds[0].DMPermission {
		t.Error("expected DM permission for DM-allowed command")
	}
	if cmds[1].DMPermission == nil || *cmds[1].DMPermission {
		t.Error("expected no DM permission for guild-only command")
	}
}

func TestSynchronizer_Sync(t *testing.T) {
	client := &fakeOverwriter{}
	s := NewSynchronizer(client, nil, nil)

	err := s.Sync("app", []*Command{newCommand("ping"), guildCommand("local", "100")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(client.calls) != 2 {
		t.Fatalf("expected 2 overwrite calls, got %d", len(client.calls))
	}
	if client.calls[0].GuildID != "" || client.calls[1].GuildID != "100" {
		t.Errorf("expected global then guild 100, got %q then %q", client.calls[0].GuildID, client.calls[1].GuildID)
	}
	if client.calls[0].AppID != "app" {
		t.Errorf("expected app id %q, got %q", "app", client.calls[0].AppID)
	}
}

func TestSynchronizer_Sync_EmptyGlobalStillOverwrites(t *testing.T) {
	client := &fakeOverwriter{}
	s := NewSynchronizer(client, nil, nil)

	if err := s.Sync("app", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.calls) != 1 || len(client.calls[0].Commands) != 0 {
		t.Errorf("expected a single empty global overwrite, got %+v", client.calls)
	}
}

func TestSynchronizer_Sync_ContinuesAfterFailure(t *testing.T) {
	syncErr := errors.New("missing access")
	client := &fakeOverwriter{fail: map[string]error{"100": syncErr}}
	reporter := &recordingReporter{}
	metrics := NewMetrics(prometheus.NewRegistry())
	s := NewSynchronizer(client, reporter, metrics)

	err := s.Sync("app", []*Command{
		newCommand("ping"),
		guildCommand("broken", "100"),
		guildCommand("fine", "200"),
	})

	if !errors.Is(err, syncErr) {
		t.Errorf("expected sync error, got %v", err)
	}
	if len(client.calls) != 3 {
		t.Errorf("expected all 3 partitions to be attempted, got %d", len(client.calls))
	}
	if len(reporter.errs) != 1 {
		t.Errorf("expected 1 reported error, got %d", len(reporter.errs))
	}
	if got := testutil.ToFloat64(metrics.syncFailures); got != 1 {
		t.Errorf("expected 1 sync failure, got %v", got)
	}
}
