package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/fotherbys-backend/internal/data/db"
	"github.com/yungbote/fotherbys-backend/internal/data/repos"
	"github.com/yungbote/fotherbys-backend/internal/data/repos/clients"
	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/ctxutil"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

// AccessTokenTTL is fixed; there are no refresh tokens.
const AccessTokenTTL = 60 * time.Minute

const minPasswordLength = 8

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	BankDetails string `json:"bank_details"`
	ClientType  string `json:"client_type"`
}

type TokenResult struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int              `json:"expires_in"`
	ClientID    uuid.UUID        `json:"client_id"`
	Name        string           `json:"name"`
	IsStaff     bool             `json:"is_staff"`
	ClientType  types.ClientType `json:"client_type"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*TokenResult, error)
	Login(ctx context.Context, email, password string) (*TokenResult, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	Me(ctx context.Context) (*types.Client, error)
	EnsureStaff(ctx context.Context, email, name, password string) (*types.Client, bool, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           db.TxRunner
	log          *logger.Logger
	clientRepo   repos.ClientRepo
	jwtSecretKey string
	clock        Clock
}

func NewAuthService(tx db.TxRunner, log *logger.Logger, clientRepo repos.ClientRepo, jwtSecretKey string, clock Clock) AuthService {
	return &authService{
		db:           tx,
		log:          log.With("service", "AuthService"),
		clientRepo:   clientRepo,
		jwtSecretKey: jwtSecretKey,
		clock:        clock,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return AccessTokenTTL }

func validateEmail(op, email string) (string, error) {
	email = clients.NormalizeEmail(email)
	if email == "" {
		return "", types.InvalidArgument(op, "email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", types.InvalidArgument(op, "email is not a valid address")
	}
	return email, nil
}

func hashPassword(op, password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", types.InvalidArgument(op, "password must be at least %d characters", minPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", types.NewError(types.CodeInternal, op, "failed to hash password", err)
	}
	return string(hashed), nil
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*TokenResult, error) {
	const op = "auth.register"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.InvalidArgument(op, "name is required")
	}
	email, err := validateEmail(op, in.Email)
	if err != nil {
		return nil, err
	}
	clientType := types.ClientTypeBuyer
	if strings.TrimSpace(in.ClientType) != "" {
		ct, ok := types.ParseClientType(in.ClientType)
		if !ok {
			return nil, types.InvalidArgument(op, "client_type must be one of Buyer, Seller, Joint")
		}
		clientType = ct
	}
	hashed, err := hashPassword(op, in.Password)
	if err != nil {
		return nil, err
	}

	client := &types.Client{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		BankDetails:  strings.TrimSpace(in.BankDetails),
		ClientType:   clientType,
	}
	err = as.db.InTx(ctx, func(dbc dbctx.Context) error {
		exists, err := as.clientRepo.EmailExists(dbc, email)
		if err != nil {
			return db.MapError(op, err)
		}
		if exists {
			return types.InvalidArgument(op, "email already registered")
		}
		if _, err := as.clientRepo.Create(dbc, []*types.Client{client}); err != nil {
			return db.MapError(op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("Client registered", "client_id", client.ID, "client_type", client.ClientType)
	return as.issue(client)
}

func (as *authService) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	const op = "auth.login"
	email = clients.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, types.Unauthenticated(op, "incorrect email or password")
	}
	client, err := as.clientRepo.GetByEmail(dbctx.New(ctx), email)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	if client == nil {
		return nil, types.Unauthenticated(op, "incorrect email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password)); err != nil {
		return nil, types.Unauthenticated(op, "incorrect email or password")
	}
	return as.issue(client)
}

func (as *authService) issue(client *types.Client) (*TokenResult, error) {
	tok, err := as.generateAccessToken(client)
	if err != nil {
		return nil, types.NewError(types.CodeInternal, "auth.token", "failed to sign token", err)
	}
	return &TokenResult{
		AccessToken: tok,
		TokenType:   "bearer",
		ExpiresIn:   int(AccessTokenTTL.Seconds()),
		ClientID:    client.ID,
		Name:        client.Name,
		IsStaff:     client.IsStaff,
		ClientType:  client.ClientType,
	}, nil
}

func (as *authService) generateAccessToken(client *types.Client) (string, error) {
	now := as.clock.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   client.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken verifies the token and attaches the client's current staff flag to ctx.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	const op = "auth.token"
	if tokenString == "" {
		return ctx, types.Unauthenticated(op, "missing token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.clock.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ctx, types.Unauthenticated(op, "token expired")
		}
		return ctx, types.Unauthenticated(op, "could not validate credentials")
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, types.Unauthenticated(op, "could not validate credentials")
	}
	clientID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, types.Unauthenticated(op, "could not validate credentials")
	}
	client, err := as.clientRepo.GetByID(dbctx.New(ctx), clientID)
	if err != nil {
		return ctx, db.MapError(op, err)
	}
	if client == nil {
		return ctx, types.Unauthenticated(op, "could not validate credentials")
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		ClientID:    client.ID,
		IsStaff:     client.IsStaff,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) Me(ctx context.Context) (*types.Client, error) {
	const op = "auth.me"
	actor := actorFrom(ctx)
	if !actor.Authenticated() {
		return nil, types.Unauthenticated(op, "authentication required")
	}
	client, err := as.clientRepo.GetByID(dbctx.New(ctx), actor.ClientID)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	if client == nil {
		return nil, types.NotFound(op, "client not found")
	}
	return client, nil
}

// EnsureStaff creates a staff client or promotes an existing one. The bool reports creation.
func (as *authService) EnsureStaff(ctx context.Context, email, name, password string) (*types.Client, bool, error) {
	const op = "auth.ensure_staff"
	email, err := validateEmail(op, email)
	if err != nil {
		return nil, false, err
	}
	var (
		out     *types.Client
		created bool
	)
	err = as.db.InTx(ctx, func(dbc dbctx.Context) error {
		existing, err := as.clientRepo.GetByEmail(dbc, email)
		if err != nil {
			return db.MapError(op, err)
		}
		if existing != nil {
			updates := map[string]interface{}{"is_staff": true}
			if password != "" {
				hashed, err := hashPassword(op, password)
				if err != nil {
					return err
				}
				updates["password_hash"] = hashed
				existing.PasswordHash = hashed
			}
			if err := as.clientRepo.UpdateFields(dbc, existing.ID, updates); err != nil {
				return db.MapError(op, err)
			}
			existing.IsStaff = true
			out = existing
			return nil
		}
		if strings.TrimSpace(name) == "" {
			return types.InvalidArgument(op, "name is required for a new staff account")
		}
		hashed, err := hashPassword(op, password)
		if err != nil {
			return err
		}
		c := &types.Client{
			Name:         strings.TrimSpace(name),
			Email:        email,
			PasswordHash: hashed,
			ClientType:   types.ClientTypeJoint,
			IsStaff:      true,
		}
		if _, err := as.clientRepo.Create(dbc, []*types.Client{c}); err != nil {
			return db.MapError(op, err)
		}
		out, created = c, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	as.log.Info("Staff account ensured", "client_id", out.ID, "created", created)
	return out, created, nil
}
