package guildconfig

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

// ClearToken is the user input that clears an option.
const ClearToken = `""`

var mentionStripper = strings.NewReplacer("<", "", "@", "", "#", "", "&", "", "!", "")

// Coerce converts raw user input into a Value of the entry's type.
func Coerce(entry Entry, raw string) (Value, error) {
	if raw == ClearToken {
		return Value{}, nil
	}

	switch entry.Type {
	case TypeRole, TypeChannel:
		return coerceMentions(raw)

	case TypeInteger:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return Value{}, fmt.Errorf("%w: %q is not a whole number", ErrInvalidValue, raw)
		}
		return Number(n), nil

	case TypeBoolean:
		switch raw {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return Value{}, fmt.Errorf("%w: %q is not true or false", ErrInvalidValue, raw)

	default:
		return Text(raw), nil
	}
}

// coerceMentions extracts ids from mention syntax such as <@&123> or <#456>.
func coerceMentions(raw string) (Value, error) {
	if !strings.Contains(raw, "<@") && !strings.Contains(raw, "<#") {
		return Value{}, fmt.Errorf("%w: %q is not a role or channel mention", ErrInvalidValue, raw)
	}

	parts := strings.Split(mentionStripper.Replace(raw), ">")

	var ids []string
	if len(parts) > 2 {
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			ids = append(ids, part)
		}
	} else {
		ids = []string{strings.TrimSpace(parts[0])}
	}

	for _, id := range ids {
		if _, err := snowflake.Parse(id); err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a valid id", ErrInvalidValue, id)
		}
	}

	return IDs(ids...), nil
}
