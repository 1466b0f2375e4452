package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"appointment-booking-api/internal/auth"
	"appointment-booking-api/internal/bookingpb"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/store"
)

type registerInput struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8,max=72"`
	Name     string `validate:"required,max=255"`
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (h *Handler) Register(ctx context.Context, req *bookingpb.RegisterRequest) (*bookingpb.RegisterResponse, error) {
	in := registerInput{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		Name:     strings.TrimSpace(req.Name),
	}
	if err := h.validate.Struct(in); err != nil {
		return nil, status.Error(codes.InvalidArgument, "valid email, name and a password of at least 8 characters are required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
	}
	if err := h.accounts.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			// don't reveal which emails exist
			return nil, status.Error(codes.AlreadyExists, "registration failed")
		}
		slog.ErrorContext(ctx, "create user", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	tok, exp, refresh, err := h.issue(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user registered", "user_id", u.ID)
	return &bookingpb.RegisterResponse{UserId: u.ID, Token: tok, RefreshToken: refresh, ExpiresAt: exp}, nil
}

func (h *Handler) Login(ctx context.Context, req *bookingpb.LoginRequest) (*bookingpb.LoginResponse, error) {
	in := loginInput{Email: strings.ToLower(strings.TrimSpace(req.Email)), Password: req.Password}
	if err := h.validate.Struct(in); err != nil {
		return nil, status.Error(codes.InvalidArgument, "email and password required")
	}

	u, err := h.accounts.UserByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.ErrorContext(ctx, "load user", "error", err)
		}
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}

	tok, exp, refresh, err := h.issue(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &bookingpb.LoginResponse{Token: tok, UserId: u.ID, Name: u.Name, RefreshToken: refresh, ExpiresAt: exp}, nil
}

// Refresh rotates a refresh token. Presenting a token that was already
// rotated revokes every token of its owner.
func (h *Handler) Refresh(ctx context.Context, req *bookingpb.RefreshRequest) (*bookingpb.RefreshResponse, error) {
	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token required")
	}

	rt, err := h.accounts.RefreshTokenByHash(ctx, auth.HashRefreshToken(req.RefreshToken))
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid refresh token")
	}
	if rt.Revoked {
		slog.WarnContext(ctx, "refresh token reuse", "user_id", rt.UserID)
		if err := h.accounts.RevokeAllRefreshTokens(ctx, rt.UserID); err != nil {
			slog.ErrorContext(ctx, "revoke refresh tokens", "error", err)
		}
		return nil, status.Error(codes.Unauthenticated, "invalid refresh token")
	}
	if !h.clock.Now().Before(rt.ExpiresAt) {
		return nil, status.Error(codes.Unauthenticated, "refresh token expired")
	}

	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	if _, err := h.accounts.RotateRefreshToken(ctx, rt.ID, rt.UserID, hash, h.clock.Now().Add(h.refreshTTL)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, status.Error(codes.Unauthenticated, "invalid refresh token")
		}
		slog.ErrorContext(ctx, "rotate refresh token", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	tok, exp, err := h.tokens.MakeToken(rt.UserID)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &bookingpb.RefreshResponse{Token: tok, RefreshToken: raw, ExpiresAt: exp.Unix()}, nil
}

func (h *Handler) Logout(ctx context.Context, _ *bookingpb.LogoutRequest) (*bookingpb.LogoutResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.accounts.RevokeAllRefreshTokens(ctx, userID); err != nil {
		slog.ErrorContext(ctx, "revoke refresh tokens", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &bookingpb.LogoutResponse{}, nil
}

func (h *Handler) GetUserInfo(ctx context.Context, _ *bookingpb.GetUserInfoRequest) (*bookingpb.GetUserInfoResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.accounts.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, status.Error(codes.NotFound, "user not found")
	}
	if err != nil {
		slog.ErrorContext(ctx, "load user", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	admin, err := h.isAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &bookingpb.GetUserInfoResponse{UserId: u.ID, Email: u.Email, Name: u.Name, IsAdmin: admin}, nil
}

func (h *Handler) IsAdmin(ctx context.Context, _ *bookingpb.IsAdminRequest) (*bookingpb.IsAdminResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	admin, err := h.isAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &bookingpb.IsAdminResponse{IsAdmin: admin}, nil
}

func (h *Handler) isAdmin(ctx context.Context, userID string) (bool, error) {
	ok, err := h.accounts.HasRole(ctx, userID, store.RoleAdmin)
	if err != nil {
		slog.ErrorContext(ctx, "load roles", "error", err)
		return false, status.Error(codes.Internal, "internal error")
	}
	return ok, nil
}

// requireAdmin returns the caller's id, or PermissionDenied for non-admins.
func (h *Handler) requireAdmin(ctx context.Context) (string, error) {
	userID, err := uid(ctx)
	if err != nil {
		return "", err
	}
	ok, err := h.isAdmin(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", status.Error(codes.PermissionDenied, "admin role required")
	}
	return userID, nil
}

// issue returns an access token, its expiry in unix seconds and a stored
// refresh token for userID.
func (h *Handler) issue(ctx context.Context, userID string) (string, int64, string, error) {
	tok, exp, err := h.tokens.MakeToken(userID)
	if err != nil {
		return "", 0, "", status.Error(codes.Internal, "internal error")
	}
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return "", 0, "", status.Error(codes.Internal, "internal error")
	}
	if _, err := h.accounts.CreateRefreshToken(ctx, userID, hash, h.clock.Now().Add(h.refreshTTL)); err != nil {
		slog.ErrorContext(ctx, "store refresh token", "error", err)
		return "", 0, "", status.Error(codes.Internal, "internal error")
	}
	return tok, exp.Unix(), raw, nil
}
