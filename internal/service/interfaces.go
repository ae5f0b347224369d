package service

import (
	"context"
	"io"
	"net/url"

	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AppInfoService interface {
	GetAppInfo(ctx context.Context) models.AppInfo
}

// AuthService covers registration, credential checks, tokens and the
// self-service account operations. identity is always the authenticated
// caller as loaded by Authenticate.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// Authenticate validates tokenString and returns the current state of
	// the user it was issued to.
	Authenticate(ctx context.Context, tokenString string) (models.User, error)

	UpdateProfile(ctx context.Context, identity models.User, req models.ProfileUpdate) (models.User, error)
	ChangePassword(ctx context.Context, identity models.User, req models.PasswordChangeRequest) (models.User, error)

	// ForgotPassword issues a reset token and delivers resetURLBase/<token>
	// to the user out of band.
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest, resetURLBase string) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (models.User, error)
}

type CotisationService interface {
	List(ctx context.Context, params url.Values) (query.Page, error)
	Get(ctx context.Context, identity models.User, id string) (query.Document, error)
	Create(ctx context.Context, identity models.User, req models.CotisationRequest) (models.Cotisation, error)
	Update(ctx context.Context, identity models.User, id string, req models.CotisationRequest) (models.Cotisation, error)
	Delete(ctx context.Context, identity models.User, id string) error
	SetStatus(ctx context.Context, id string, req models.CotisationStatusRequest) (models.Cotisation, error)
	ListByMember(ctx context.Context, identity models.User, memberID string) ([]query.Document, error)
	ListByPeriod(ctx context.Context, month, year string) ([]query.Document, error)
	Report(ctx context.Context, req models.CotisationReportRequest) (CotisationReport, error)
}

type GroupService interface {
	List(ctx context.Context, params url.Values) (query.Page, error)
	Get(ctx context.Context, identity models.User, id string) (query.Document, error)
	Create(ctx context.Context, identity models.User, req models.GroupRequest) (models.Group, error)
	Update(ctx context.Context, identity models.User, id string, req models.GroupRequest) (models.Group, error)
	Delete(ctx context.Context, identity models.User, id string) error
	AddMember(ctx context.Context, identity models.User, groupID, userID string) (models.Group, error)
	RemoveMember(ctx context.Context, identity models.User, groupID, userID string) (models.Group, error)
	ListByMember(ctx context.Context, identity models.User, memberID string) ([]query.Document, error)
}

type TransactionService interface {
	List(ctx context.Context, params url.Values) (query.Page, error)
	Get(ctx context.Context, identity models.User, id string) (query.Document, error)
	Create(ctx context.Context, identity models.User, req models.TransactionRequest) (models.Transaction, error)
	Update(ctx context.Context, identity models.User, id string, req models.TransactionRequest) (models.Transaction, error)
	Delete(ctx context.Context, identity models.User, id string) error
	ListByMember(ctx context.Context, identity models.User, memberID string) ([]query.Document, error)
	ListByGroup(ctx context.Context, identity models.User, groupID string) ([]query.Document, error)
	Report(ctx context.Context, req models.TransactionReportRequest) (TransactionReport, error)
	UploadAttachment(ctx context.Context, identity models.User, id string, file AttachmentFile) (models.Transaction, error)
}

// AttachmentFile is an uploaded receipt as received by the HTTP layer.
type AttachmentFile struct {
	Name    string
	Size    int64
	Content io.Reader
}
