package domain

// PendingVerification is one email/code issuance attempt for a user. Rows are
// append-only; the most recently created unverified row is the authoritative
// one for a user, older rows are superseded but never deleted.
type PendingVerification struct {
	ID            int64  `db:"id"`
	UserID        string `db:"user_id"`
	GuildID       string `db:"guild_id"`
	EmailHash     string `db:"email_hash"`
	CodeHash      string `db:"code_hash"`
	CodeExpiresAt int64  `db:"code_expires_at"`
	Verified      bool   `db:"verified"`
	CreatedAt     int64  `db:"created_at"`
}

// ExpiredAt reports whether the code is no longer acceptable at the given
// epoch-seconds instant.
func (p *PendingVerification) ExpiredAt(nowEpoch int64) bool {
	return nowEpoch > p.CodeExpiresAt
}
