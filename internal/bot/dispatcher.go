package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/telemetry"
)

// Guard messages sent by the dispatcher.
const (
	dmRejectedMessage = "Hey :wave:, This command is not supported in DMs."
	notSetupMessage   = "SparrowBot has not been setup yet. You cannot use any of the bot commands until it has been setup. " +
		"If you are the server owner, please run /setup"
	forbiddenFormat = "You do not have the permission to use the /%s command"
)

const defaultHandlerTimeout = 10 * time.Second

// SetupChecker reports whether a guild has completed /setup.
type SetupChecker interface {
	IsGuildSetup(guildID string) bool
}

// ResponderFactory creates the Responder for an interaction.
type ResponderFactory func(s *discordgo.Session, i *discordgo.Interaction) Responder

// Dispatcher routes interactions to registered commands and components.
type Dispatcher struct {
	registry     *Registry
	setup        SetupChecker
	reporter     telemetry.Reporter
	metrics      *Metrics
	timeout      time.Duration
	newResponder ResponderFactory
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithReporter sets where handler failures are reported.
func WithReporter(r telemetry.Reporter) DispatcherOption {
	return func(d *Dispatcher) { d.reporter = r }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *Metrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithHandlerTimeout bounds the context passed to handlers.
func WithHandlerTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithResponderFactory replaces how responders are created.
func WithResponderFactory(f ResponderFactory) DispatcherOption {
	return func(d *Dispatcher) { d.newResponder = f }
}

// NewDispatcher creates a Dispatcher over registry.
func NewDispatcher(registry *Registry, setup SetupChecker, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry:     registry,
		setup:        setup,
		reporter:     telemetry.LogReporter{},
		timeout:      defaultHandlerTimeout,
		newResponder: NewDiscordResponder,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HandleInteraction routes an incoming interaction. It is registered as a
// discordgo event handler.
func (d *Dispatcher) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		d.dispatchComponent(s, i, i.MessageComponentData().CustomID)
	case discordgo.InteractionModalSubmit:
		d.dispatchComponent(s, i, i.ModalSubmitData().CustomID)
	case discordgo.InteractionApplicationCommand, discordgo.InteractionApplicationCommandAutocomplete:
		d.dispatchCommand(s, i)
	default:
		d.metrics.observeInteraction(kindOther, outcomeIgnored)
	}
}

func (d *Dispatcher) dispatchComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	component, ok := d.registry.Component(customID)
	if !ok {
		slog.Debug("found no handler for component", "component", customID)
		d.metrics.observeInteraction(kindComponent, outcomeUnknown)
		return
	}

	r := d.newResponder(s, i.Interaction)
	d.invoke(s, i, r, kindComponent, customID, component.Action)
}

func (d *Dispatcher) dispatchCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	cmd, ok := d.registry.Command(name)
	if !ok {
		slog.Debug("found no handler for command", "command", name)
		d.metrics.observeInteraction(kindCommand, outcomeUnknown)
		return
	}

	r := d.newResponder(s, i.Interaction)

	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		if cmd.Autocomplete == nil {
			d.metrics.observeInteraction(kindAutocomplete, outcomeUnknown)
			return
		}
		d.invoke(s, i, r, kindAutocomplete, name, cmd.Autocomplete)
		return
	}

	if IsDMInteraction(i) {
		if !cmd.DMAllowed {
			d.metrics.observeInteraction(kindCommand, outcomeDMRejected)
			d.reply(RespondContent(r, dmRejectedMessage, false), name)
			return
		}
	} else if name != SetupCommandName && !d.setup.IsGuildSetup(i.GuildID) {
		d.metrics.observeInteraction(kindCommand, outcomeNotSetup)
		d.reply(RespondEmbed(r, notSetupEmbed(), false), name)
		return
	}

	if cmd.Permission != nil && !cmd.Permission(i) {
		d.metrics.observeInteraction(kindCommand, outcomeForbidden)
		d.reply(RespondContent(r, fmt.Sprintf(forbiddenFormat, name), true), name)
		return
	}

	d.invoke(s, i, r, kindCommand, name, cmd.Handler)
}

// invoke runs h with a bounded context, recovering panics and reporting errors.
func (d *Dispatcher) invoke(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r Responder,
	kind, name string,
	h InteractionHandler,
) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	tr := &trackingResponder{Responder: r}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("recovered from handler panic", "kind", kind, "name", name, "panic", rec)
			d.reporter.CaptureException(fmt.Errorf("panic in %s %s: %v", kind, name, rec))
			d.metrics.observeInteraction(kind, outcomePanicked)
		}
	}()

	err := h(ctx, s, i, tr)
	d.metrics.observeLatency(name, time.Since(start))
	if err == nil {
		d.metrics.observeInteraction(kind, outcomeHandled)
		return
	}

	slog.Error("failed to handle interaction", "kind", kind, "name", name, "error", err)
	d.reporter.CaptureException(fmt.Errorf("%s %s: %w", kind, name, err))
	d.metrics.observeInteraction(kind, outcomeFailed)

	if kind == kindAutocomplete {
		return
	}
	embed := &discordgo.MessageEmbed{
		Title:       "Error",
		Description: "An error occurred while processing your command.",
		Color:       colorRed,
	}
	switch {
	case !tr.responded:
		d.reply(RespondEmbed(r, embed, true), name)
	case tr.deferred && !tr.edited:
		d.reply(EditEmbed(r, embed), name)
	}
}

// trackingResponder records what a handler has already sent, so a failure
// is answered without a second initial response.
type trackingResponder struct {
	Responder
	responded bool
	deferred  bool
	edited    bool
}

func (t *trackingResponder) Respond(response *discordgo.InteractionResponse) error {
	if err := t.Responder.Respond(response); err != nil {
		return err
	}
	t.responded = true
	switch response.Type {
	case discordgo.InteractionResponseDeferredChannelMessageWithSource,
		discordgo.InteractionResponseDeferredMessageUpdate:
		t.deferred = true
	}
	return nil
}

func (t *trackingResponder) Edit(edit *discordgo.WebhookEdit) error {
	if err := t.Responder.Edit(edit); err != nil {
		return err
	}
	t.edited = true
	return nil
}

func (d *Dispatcher) reply(err error, name string) {
	if err != nil {
		slog.Error("failed to send response", "name", name, "error", err)
	}
}

func notSetupEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color:       colorNotSetup,
		Description: notSetupMessage,
		Footer:      Footer(),
		Timestamp:   Timestamp(time.Now()),
	}
}
