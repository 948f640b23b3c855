package domain

import "time"

type User struct {
	ID              string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	WalletPublicKey string
	DiscordID       string
	DiscordName     string
	InactiveDate    *time.Time
	Verified        bool
	IsOG            bool
	TrackedWallets  []string
}

// IsActive reports whether the user's subscription is current at now.
func (u *User) IsActive(now time.Time) bool {
	if u == nil || !u.Verified {
		return false
	}
	return u.InactiveDate == nil || u.InactiveDate.After(now)
}

// TracksWallet reports membership in the user's tracked-wallet set.
func (u *User) TracksWallet(walletAddress string) bool {
	if u == nil {
		return false
	}
	for _, addr := range u.TrackedWallets {
		if addr == walletAddress {
			return true
		}
	}
	return false
}
