package user

import (
	"context"
	"fmt"
	"strings"

	"fitness-league-go/internal/domain/league"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile stores what the identity provider told us about a user.
// Without an explicit username the local part of the email is used.
func (s *Service) UpsertProfile(ctx context.Context, userID, email, username, avatarURL string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", league.ErrInvalidInput)
	}

	profile := Profile{UserID: userID}
	if email = strings.TrimSpace(email); email != "" {
		profile.Email = &email
	}
	if name := displayName(username, email); name != "" {
		profile.Username = &name
	}
	if avatarURL = strings.TrimSpace(avatarURL); avatarURL != "" {
		profile.AvatarURL = &avatarURL
	}

	return s.repo.UpsertProfile(ctx, &profile)
}

func displayName(username, email string) string {
	if username = strings.TrimSpace(username); username != "" {
		return username
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return ""
}
