package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/moonlit/verifybot/internal/config"
	"github.com/moonlit/verifybot/internal/domain"
	"github.com/moonlit/verifybot/pkg/email"
	mock_email "github.com/moonlit/verifybot/pkg/email/mock"
	"github.com/moonlit/verifybot/pkg/hash"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePendingRepository keeps rows in memory with the same "latest unverified
// row wins" lookup the MySQL implementation uses.
type fakePendingRepository struct {
	rows   []*domain.PendingVerification
	nextID int64

	createErr error
	getErr    error
}

func (r *fakePendingRepository) Create(_ context.Context, pending *domain.PendingVerification) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}

	r.nextID++
	row := *pending
	row.ID = r.nextID
	r.rows = append(r.rows, &row)

	return row.ID, nil
}

func (r *fakePendingRepository) GetLatestUnverified(_ context.Context, userID string) (*domain.PendingVerification, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}

	var latest *domain.PendingVerification
	for _, row := range r.rows {
		if row.UserID != userID || row.Verified {
			continue
		}
		if latest == nil || row.CreatedAt > latest.CreatedAt ||
			(row.CreatedAt == latest.CreatedAt && row.ID > latest.ID) {
			latest = row
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}

	copied := *latest
	return &copied, nil
}

func (r *fakePendingRepository) MarkVerified(_ context.Context, id int64) error {
	for _, row := range r.rows {
		if row.ID == id {
			row.Verified = true
		}
	}

	return nil
}

type fakeGuildGateway struct {
	guildID string

	sharedGuildErr error
	memberErr      error
	grantErr       error

	granted []string
}

func (g *fakeGuildGateway) SharedGuild(_ context.Context, _ string) (string, error) {
	if g.sharedGuildErr != nil {
		return "", g.sharedGuildErr
	}

	return g.guildID, nil
}

func (g *fakeGuildGateway) EnsureMember(_ context.Context, _ string, _ string) error {
	return g.memberErr
}

func (g *fakeGuildGateway) GrantVerifiedRole(_ context.Context, _ string, userID string) error {
	if g.grantErr != nil {
		return g.grantErr
	}

	g.granted = append(g.granted, userID)

	return nil
}

type stubCodeGenerator struct {
	codes []string
	calls int
}

func (g *stubCodeGenerator) Generate() (string, error) {
	code := g.codes[g.calls%len(g.codes)]
	g.calls++

	return code, nil
}

type verificationFixture struct {
	service *verificationService
	repo    *fakePendingRepository
	guilds  *fakeGuildGateway
	sender  *mock_email.EmailSender
	hasher  hash.Hasher
}

func newVerificationFixture(t *testing.T, codes []string, expiry time.Duration) *verificationFixture {
	t.Helper()

	repo := &fakePendingRepository{}
	guilds := &fakeGuildGateway{guildID: "guild-1"}
	sender := new(mock_email.EmailSender)
	hasher := hash.NewSHA256Hasher()

	svc := newVerificationService(
		repo,
		hasher,
		&stubCodeGenerator{codes: codes},
		newEmailService(sender),
		guilds,
		config.VerificationConfig{CodeExpiry: expiry, OperationTimeout: time.Second},
		zap.NewNop().Sugar(),
	)

	return &verificationFixture{service: svc, repo: repo, guilds: guilds, sender: sender, hasher: hasher}
}

func TestRequestVerification_InsertsHashedRow(t *testing.T) {
	f := newVerificationFixture(t, []string{"123456"}, 10*time.Minute)
	f.sender.On("Send", mock.Anything).Return(nil)

	expiresIn, err := f.service.RequestVerification(context.Background(), "user-1", "User@Example.COM")
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, expiresIn)

	require.Len(t, f.repo.rows, 1)
	row := f.repo.rows[0]
	require.Equal(t, "user-1", row.UserID)
	require.Equal(t, "guild-1", row.GuildID)
	require.Equal(t, f.hasher.Hash("user@example.com"), row.EmailHash)
	require.Equal(t, f.hasher.Hash("123456"), row.CodeHash)
	require.Equal(t, row.CreatedAt+600, row.CodeExpiresAt)
	require.False(t, row.Verified)

	f.sender.AssertCalled(t, "Send", mock.MatchedBy(func(inp email.SendEmailInput) bool {
		return inp.To == "User@Example.COM" &&
			strings.Contains(inp.Body, "123456") &&
			strings.Contains(inp.Body, "10 minutes")
	}))
}

func TestRequestVerification_InvalidEmail(t *testing.T) {
	f := newVerificationFixture(t, []string{"123456"}, 10*time.Minute)

	for _, addr := range []string{"no-at-sign", "two@at@signs", ""} {
		_, err := f.service.RequestVerification(context.Background(), "user-1", addr)
		require.ErrorIs(t, err, ErrInvalidEmail)
	}

	require.Empty(t, f.repo.rows)
	f.sender.AssertNotCalled(t, "Send", mock.Anything)
}

func TestRequestVerification_NotInGuild(t *testing.T) {
	f := newVerificationFixture(t, []string{"123456"}, 10*time.Minute)
	f.guilds.sharedGuildErr = ErrNotInGuild

	_, err := f.service.RequestVerification(context.Background(), "user-1", "user@example.com")
	require.ErrorIs(t, err, ErrNotInGuild)
	require.Empty(t, f.repo.rows)
}

func TestRequestVerification_MailFailureKeepsRow(t *testing.T) {
	f := newVerificationFixture(t, []string{"123456"}, 10*time.Minute)
	f.sender.On("Send", mock.Anything).Return(errors.New("smtp auth failed"))

	_, err := f.service.RequestVerification(context.Background(), "user-1", "user@example.com")
	require.ErrorIs(t, err, ErrMailSend)

	// The row outlives the failed send: the code is still confirmable.
	require.Len(t, f.repo.rows, 1)
	require.NoError(t, f.service.ConfirmCode(context.Background(), "user-1", "123456"))
}

func TestConfirmCode_Success(t *testing.T) {
	f := newVerificationFixture(t, []string{"123456"}, 10*time.Minute)
	f.sender.On("Send", mock.Anything).Return(nil)

	_, err := f.service.RequestVerification(context.Background(), "user-1", "user@example.com")
	require.NoError(t, err)

	require.NoError(t, f.service.ConfirmCode(context.Background(), "user-1", "123456"))
	require.True(t, f.repo.rows[0].Verified)
	require.Equal(t, []string{"user-1"}, f.guilds.granted)
}

func TestConfirmCode_NoPendingRequest(t *testing.T) {
	f := newVerificationFixture(t, []string{"123456"}, 10*time.Minute)

	err := f.service.ConfirmCode(context.Background(), "user-1", "123456")
	require.ErrorIs(t, err, ErrNoPendingRequest)
}

func TestConfirmCode_Mismatch(t *testing.T) {
	f := newVerificationFixture(t, []string{"123456"}, 10*time.Minute)
	f.sender.On("Send", mock.Anything).Return(nil)

	_, err := f.service.RequestVerification(context.Background(), "user-1", "user@example.com")
	require.NoError(t, err)

	err = f.service.ConfirmCode(context.Background(), "user-1", "000000")
	require.ErrorIs(t, err, ErrCodeMismatch)

	// The row is untouched and a later correct attempt still succeeds.
	require.False(t, f.repo.rows[0].Verified)
	require.NoError(t, f.service.ConfirmCode(context.Background(), "user-1", "123456"))
}

func TestConfirmCode_Expired(t *testing.T) {
	f := newVerificationFixture(t, []string{"123456"}, -time.Minute)
	f.sender.On("Send", mock.Anything).Return(nil)

	_, err := f.service.RequestVerification(context.Background(), "user-1", "user@example.com")
	require.NoError(t, err)

	err = f.service.ConfirmCode(context.Background(), "user-1", "123456")
	require.ErrorIs(t, err, ErrCodeExpired)
	require.False(t, f.repo.rows[0].Verified)
}

func TestConfirmCode_NotAMember(t *testing.T) {
	f := newVerificationFixture(t, []string{"123456"}, 10*time.Minute)
	f.sender.On("Send", mock.Anything).Return(nil)
	f.guilds.memberErr = ErrNotAMember

	_, err := f.service.RequestVerification(context.Background(), "user-1", "user@example.com")
	require.NoError(t, err)

	err = f.service.ConfirmCode(context.Background(), "user-1", "123456")
	require.ErrorIs(t, err, ErrNotAMember)
	require.False(t, f.repo.rows[0].Verified)
}

func TestConfirmCode_RoleGrantFailureLeavesRowUnverified(t *testing.T) {
	f := newVerificationFixture(t, []string{"123456"}, 10*time.Minute)
	f.sender.On("Send", mock.Anything).Return(nil)
	f.guilds.grantErr = errors.New("missing permission")

	_, err := f.service.RequestVerification(context.Background(), "user-1", "user@example.com")
	require.NoError(t, err)

	err = f.service.ConfirmCode(context.Background(), "user-1", "123456")
	require.ErrorIs(t, err, ErrRoleGrant)
	require.False(t, f.repo.rows[0].Verified)

	// Resubmitting the same still-valid code succeeds once the grant works.
	f.guilds.grantErr = nil
	require.NoError(t, f.service.ConfirmCode(context.Background(), "user-1", "123456"))
	require.True(t, f.repo.rows[0].Verified)
}

func TestConfirmCode_LatestRowWins(t *testing.T) {
	f := newVerificationFixture(t, []string{"111111", "222222"}, 10*time.Minute)
	f.sender.On("Send", mock.Anything).Return(nil)

	_, err := f.service.RequestVerification(context.Background(), "user-1", "user@example.com")
	require.NoError(t, err)
	_, err = f.service.RequestVerification(context.Background(), "user-1", "user@example.com")
	require.NoError(t, err)

	require.Len(t, f.repo.rows, 2)

	// The superseded code no longer matches; only the newest row is checked.
	err = f.service.ConfirmCode(context.Background(), "user-1", "111111")
	require.ErrorIs(t, err, ErrCodeMismatch)

	require.NoError(t, f.service.ConfirmCode(context.Background(), "user-1", "222222"))
	require.False(t, f.repo.rows[0].Verified)
	require.True(t, f.repo.rows[1].Verified)
}

func TestConfirmCode_VerifiedRowIsTerminal(t *testing.T) {
	f := newVerificationFixture(t, []string{"123456"}, 10*time.Minute)
	f.sender.On("Send", mock.Anything).Return(nil)

	_, err := f.service.RequestVerification(context.Background(), "user-1", "user@example.com")
	require.NoError(t, err)
	require.NoError(t, f.service.ConfirmCode(context.Background(), "user-1", "123456"))

	// The verified row is no longer reachable; a re-confirm is a fresh miss.
	err = f.service.ConfirmCode(context.Background(), "user-1", "123456")
	require.ErrorIs(t, err, ErrNoPendingRequest)
}
