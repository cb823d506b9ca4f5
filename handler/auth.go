package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"intake-backend/entity"
	"intake-backend/errs"
	"intake-backend/events"
	"intake-backend/jwt"
	"intake-backend/log"
	"intake-backend/password"
	"intake-backend/store"
)

type signupRequest struct {
	Firstname       string `json:"firstname" form:"firstname"`
	Lastname        string `json:"lastname" form:"lastname"`
	Email           string `json:"email" form:"email"`
	Number          string `json:"number" form:"number"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type profileRequest struct {
	Token string `json:"token" form:"token"`
}

type authHandler struct {
	s      store.Store
	hasher *password.Hasher
	tokens *jwt.Issuer
	events events.Publisher
}

func (h *authHandler) Signup(c *fiber.Ctx) error {
	req := &signupRequest{}
	if err := c.BodyParser(req); err != nil {
		return failed(c, err)
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		log.Logger.Error("failed to generate bcrypt hash", zap.Error(err))
		return failed(c, err)
	}

	// confirmPassword is hashed and stored as sent, never compared.
	confirmHash, err := h.hasher.Hash(req.ConfirmPassword)
	if err != nil {
		log.Logger.Error("failed to generate bcrypt hash", zap.Error(err))
		return failed(c, err)
	}
	if req.Password != req.ConfirmPassword {
		log.Logger.Debug("confirmPassword differs from password", zap.String("email", req.Email))
	}

	u := &entity.User{
		ID:              primitive.NewObjectID(),
		Firstname:       req.Firstname,
		Lastname:        req.Lastname,
		Email:           req.Email,
		Number:          req.Number,
		Password:        hash,
		ConfirmPassword: confirmHash,
	}

	err = h.s.Create(c.UserContext(), store.Users, u)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			log.Logger.Debug("already has account", zap.String("email", req.Email))
			return rejected(c, errs.ErrUserExists)
		}

		return failed(c, err)
	}

	publish(c.UserContext(), h.events, events.UserCreated, u.Email)

	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *authHandler) Login(c *fiber.Ctx) error {
	req := &loginRequest{}
	if err := c.BodyParser(req); err != nil {
		return failed(c, err)
	}

	u := &entity.User{}
	err := h.s.FindOne(c.UserContext(), store.Users, bson.M{"email": req.Email}, u)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return rejected(c, errs.ErrUserNotFound)
		}

		return failed(c, err)
	}

	match, err := h.hasher.Verify(req.Password, u.Password)
	if err != nil {
		log.Logger.Error("failed to compare bcrypt hash", zap.Error(err), zap.String("email", req.Email))
		return failed(c, err)
	}
	if !match {
		log.Logger.Debug("invalid password", zap.String("email", req.Email))
		return rejected(c, errs.ErrInvalidPassword)
	}

	token, err := h.tokens.Issue(u.Email)
	if err != nil {
		return failed(c, err)
	}

	return ok(c, token)
}

// Profile resolves a token to the stored user. A token whose user no longer
// exists yields ok with null data.
func (h *authHandler) Profile(c *fiber.Ctx) error {
	req := &profileRequest{}
	if err := c.BodyParser(req); err != nil {
		return failed(c, err)
	}

	claims, err := h.tokens.Verify(req.Token)
	if err != nil {
		return failed(c, errs.ErrInvalidToken)
	}

	u := &entity.User{}
	err = h.s.FindOne(c.UserContext(), store.Users, bson.M{"email": claims.Email}, u)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ok(c, nil)
		}

		return failed(c, err)
	}

	return ok(c, u)
}

func NewAuthHandler(d Deps) *authHandler {
	d = d.withDefaults()

	return &authHandler{
		s:      d.Store,
		hasher: d.Hasher,
		tokens: d.Tokens,
		events: d.Events,
	}
}
