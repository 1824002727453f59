package services

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/cryptora-app/server/internal/common"
	"github.com/cryptora-app/server/internal/server/config"
)

var aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const (
	maxColorLength = 20
	maxIconLength  = 50
)

// Validation runs before any key derivation so malformed requests never pay
// the KDF cost. Character-denominated limits count runes; only the content
// limit is a byte budget.

func validateAlias(cfg *config.Config, alias string) error {
	if alias == "" || utf8.RuneCountInString(alias) > cfg.MaxAliasLength {
		return fmt.Errorf("%w: alias must be 1-%d characters", common.ErrorValidation, cfg.MaxAliasLength)
	}
	if !aliasPattern.MatchString(alias) {
		return fmt.Errorf("%w: alias must contain only letters, numbers, hyphens, and underscores", common.ErrorValidation)
	}
	return nil
}

func validatePassword(cfg *config.Config, password string) error {
	if len(password) < cfg.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, cfg.MinPasswordLength)
	}
	return nil
}

func validateNoteFields(cfg *config.Config, title *string, content string) error {
	if title != nil && utf8.RuneCountInString(*title) > cfg.MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", common.ErrorValidation, cfg.MaxTitleLength)
	}
	if len(content) == 0 {
		return fmt.Errorf("%w: content is required", common.ErrorValidation)
	}
	if len(content) > cfg.MaxContentSize {
		return fmt.Errorf("%w: content must be at most %d bytes", common.ErrorValidation, cfg.MaxContentSize)
	}
	return nil
}

func validateFolderUpdate(cfg *config.Config, name, color, icon *string) error {
	if name != nil {
		if *name == "" || utf8.RuneCountInString(*name) > cfg.MaxFolderNameLength {
			return fmt.Errorf("%w: folder name must be 1-%d characters", common.ErrorValidation, cfg.MaxFolderNameLength)
		}
	}
	if color != nil && utf8.RuneCountInString(*color) > maxColorLength {
		return fmt.Errorf("%w: color must be at most %d characters", common.ErrorValidation, maxColorLength)
	}
	if icon != nil && utf8.RuneCountInString(*icon) > maxIconLength {
		return fmt.Errorf("%w: icon must be at most %d characters", common.ErrorValidation, maxIconLength)
	}
	return nil
}

func validateFolderFields(cfg *config.Config, name, color, icon string) error {
	if name == "" || utf8.RuneCountInString(name) > cfg.MaxFolderNameLength {
		return fmt.Errorf("%w: folder name must be 1-%d characters", common.ErrorValidation, cfg.MaxFolderNameLength)
	}
	if utf8.RuneCountInString(color) > maxColorLength {
		return fmt.Errorf("%w: color must be at most %d characters", common.ErrorValidation, maxColorLength)
	}
	if utf8.RuneCountInString(icon) > maxIconLength {
		return fmt.Errorf("%w: icon must be at most %d characters", common.ErrorValidation, maxIconLength)
	}
	return nil
}
