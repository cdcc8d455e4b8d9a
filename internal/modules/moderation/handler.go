package moderation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/storage"
)

const (
	successEmoji = ":white_check_mark:"
	errorEmoji   = ":x:"
)

const (
	noReason          = "No reason provided"
	cannotTarget      = "You do not have permission to target this member! " + errorEmoji
	notInGuild        = "That member is not in this server. " + errorEmoji
	notBanned         = "The specified member is not banned! " + errorEmoji
	alreadyTimedOut   = "This member is already timed out."
	cannotTimeout     = "I do not have permission to timeout this member! " + errorEmoji
	warningMuteReason = "Member reached the maximum amount of warnings."
)

// warningTimeoutMinutes is how long a member is timed out after reaching
// the maximum amount of warnings.
const warningTimeoutMinutes = 1440

func (m *ModerationModule) handleKick(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	opts := bot.Options(i.ApplicationCommandData().Options)
	target, ok, err := m.resolveTarget(ctx, i, r, opts.ID("member"))
	if err != nil || !ok {
		return err
	}
	reason := reasonOrDefault(opts.String("reason"))

	err = m.discord.GuildMemberDeleteWithReason(i.GuildID, target.User.ID, reason, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to kick member: %w", err)
	}

	if err := bot.RespondContent(r, fmt.Sprintf("%s has been kicked. %s", bot.Mention(target.User.ID), successEmoji), false); err != nil {
		return err
	}
	m.logPunishment(ctx, punishment{
		guildID:   i.GuildID,
		inflictor: i.Member.User,
		target:    target.User,
		action:    punishKicked,
		reason:    reason,
	})
	return nil
}

func (m *ModerationModule) handleBan(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	opts := bot.Options(i.ApplicationCommandData().Options)
	target, ok, err := m.resolveTarget(ctx, i, r, opts.ID("member"))
	if err != nil || !ok {
		return err
	}
	reason := reasonOrDefault(opts.String("reason"))
	days, _ := opts.Int("daystodelete")
	days = min(max(days, 0), maxDeleteDays)

	err = m.discord.GuildBanCreateWithReason(i.GuildID, target.User.ID, reason, int(days), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to ban member: %w", err)
	}

	if err := bot.RespondContent(r, fmt.Sprintf("%s has been banned! %s", bot.Mention(target.User.ID), successEmoji), false); err != nil {
		return err
	}
	m.logPunishment(ctx, punishment{
		guildID:   i.GuildID,
		inflictor: i.Member.User,
		target:    target.User,
		action:    punishBanned,
		reason:    reason,
	})
	return nil
}

func (m *ModerationModule) handleUnban(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	opts := bot.Options(i.ApplicationCommandData().Options)
	userID := opts.String("member")

	ban, err := m.discord.GuildBan(i.GuildID, userID, discordgo.WithContext(ctx))
	if isNotFound(err) {
		return bot.RespondContent(r, notBanned, true)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch ban: %w", err)
	}

	reason := reasonOrDefault(opts.String("reason"))
	err = m.discord.GuildBanDelete(i.GuildID, userID,
		discordgo.WithContext(ctx),
		discordgo.WithAuditLogReason(reason),
	)
	if err != nil {
		return fmt.Errorf("failed to unban member: %w", err)
	}

	if err := bot.RespondContent(r, fmt.Sprintf("%s has been unbanned! %s", bot.Mention(userID), successEmoji), false); err != nil {
		return err
	}
	m.logPunishment(ctx, punishment{
		guildID:   i.GuildID,
		inflictor: i.Member.User,
		target:    banUser(ban, userID),
		action:    punishUnbanned,
		reason:    reason,
	})
	return nil
}

func (m *ModerationModule) handleTimeout(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	opts := bot.Options(i.ApplicationCommandData().Options)
	target, ok, err := m.resolveTarget(ctx, i, r, opts.ID("member"))
	if err != nil || !ok {
		return err
	}
	reason := opts.String("reason")
	minutes, _ := opts.Int("time")

	if minutes <= 0 {
		err := m.discord.GuildMemberTimeout(i.GuildID, target.User.ID, nil,
			discordgo.WithContext(ctx),
			discordgo.WithAuditLogReason(reason),
		)
		if err != nil {
			return fmt.Errorf("failed to remove timeout: %w", err)
		}
		m.logPunishment(ctx, punishment{
			guildID:   i.GuildID,
			inflictor: i.Member.User,
			target:    target.User,
			action:    punishTimeoutRemoved,
			reason:    reason,
		})
		return bot.RespondContent(r,
			fmt.Sprintf("%s's time out has been removed. %s", displayName(target.User), successEmoji), true)
	}

	minutes = min(minutes, maxTimeoutMinutes)

	now := m.now()
	if until := target.CommunicationDisabledUntil; until != nil && until.After(now) {
		return bot.RespondContent(r, alreadyTimedOut, true)
	}

	done, err := m.timeout(ctx, i.GuildID, target.User.ID, minutes, reason, r)
	if err != nil || !done {
		return err
	}

	m.logPunishment(ctx, punishment{
		guildID:   i.GuildID,
		inflictor: i.Member.User,
		target:    target.User,
		action:    punishTimedOut,
		reason:    reason,
		minutes:   minutes,
	})
	return bot.RespondContent(r,
		fmt.Sprintf("%s has been timed out for %d minutes. %s", displayName(target.User), minutes, successEmoji), true)
}

func (m *ModerationModule) handleWarn(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	opts := bot.Options(i.ApplicationCommandData().Options)
	target, ok, err := m.resolveTarget(ctx, i, r, opts.ID("member"))
	if err != nil || !ok {
		return err
	}
	reason := reasonOrDefault(opts.String("reason"))

	active, err := m.warnings.CountActive(ctx, target.User.ID, i.GuildID)
	if err != nil {
		return err
	}

	// The warning being issued counts towards the limit.
	if limit := m.maxWarnings(i.GuildID); limit > 0 && active+1 >= limit {
		return m.punishWarnings(ctx, i, r, target)
	}

	err = m.warnings.Add(ctx, &storage.MemberWarning{
		MemberID:  target.User.ID,
		Member:    displayName(target.User),
		Warning:   reason,
		Inflictor: displayName(i.Member.User),
		GuildID:   i.GuildID,
		CreatedAt: m.now(),
	})
	if err != nil {
		return err
	}

	if err := bot.RespondContent(r, fmt.Sprintf("%s has been warned! %s", bot.Mention(target.User.ID), successEmoji), false); err != nil {
		return err
	}
	m.logPunishment(ctx, punishment{
		guildID:   i.GuildID,
		inflictor: i.Member.User,
		target:    target.User,
		action:    punishWarned,
		reason:    reason,
	})
	return nil
}

// punishWarnings times out a member who reached the warning limit and
// marks their warnings as punished.
func (m *ModerationModule) punishWarnings(
	ctx context.Context,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	target *discordgo.Member,
) error {
	done, err := m.timeout(ctx, i.GuildID, target.User.ID, warningTimeoutMinutes, warningMuteReason, r)
	if err != nil || !done {
		return err
	}

	content := fmt.Sprintf("%s has been timed out for **%s** for reaching the maximum amount of warnings.",
		displayName(target.User), humanizeSeconds(warningTimeoutMinutes*60))
	if err := bot.RespondContent(r, content, false); err != nil {
		return err
	}

	m.logPunishment(ctx, punishment{
		guildID:   i.GuildID,
		inflictor: i.Member.User,
		target:    target.User,
		action:    punishTimedOut,
		reason:    warningMuteReason,
		minutes:   warningTimeoutMinutes,
	})
	return m.warnings.MarkPunished(ctx, target.User.ID, i.GuildID)
}

// timeout applies a timeout. It reports false after telling the invoker
// that the bot lacks the permission to do so.
func (m *ModerationModule) timeout(
	ctx context.Context,
	guildID, userID string,
	minutes int64,
	reason string,
	r bot.Responder,
) (bool, error) {
	until := m.now().Add(time.Duration(minutes) * time.Minute)
	err := m.discord.GuildMemberTimeout(guildID, userID, &until,
		discordgo.WithContext(ctx),
		discordgo.WithAuditLogReason(reason),
	)
	if isMissingPermissions(err) {
		return false, bot.RespondContent(r, cannotTimeout, true)
	}
	if err != nil {
		return false, fmt.Errorf("failed to time out member: %w", err)
	}
	return true, nil
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return noReason
	}
	return reason
}

func banUser(ban *discordgo.GuildBan, userID string) *discordgo.User {
	if ban != nil && ban.User != nil {
		return ban.User
	}
	return &discordgo.User{ID: userID}
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil &&
		restErr.Response.StatusCode == http.StatusNotFound
}

func isMissingPermissions(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Message != nil &&
		restErr.Message.Code == discordgo.ErrCodeMissingPermissions
}
