package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"intake-backend/entity"
	"intake-backend/errs"
	"intake-backend/events"
	"intake-backend/log"
	"intake-backend/mail"
	"intake-backend/store"
)

const createdStatus = "request created successfully"

type wagerRequest struct {
	Firstname     string `json:"firstname" form:"firstname"`
	Lastname      string `json:"lastname" form:"lastname"`
	Email         string `json:"email" form:"email"`
	ContactNo     string `json:"contactNo" form:"contactNo"`
	Address       string `json:"address" form:"address"`
	District      string `json:"District" form:"District"`
	State         string `json:"state" form:"state"`
	Pincode       string `json:"pincode" form:"pincode"`
	NumberofWager string `json:"NumberofWager" form:"NumberofWager"`
	Work          string `json:"work" form:"work"`
}

type agriRequest struct {
	Firstname string `json:"firstname" form:"firstname"`
	Lastname  string `json:"lastname" form:"lastname"`
	Email     string `json:"email" form:"email"`
	ContactNo string `json:"contactNo" form:"contactNo"`
	Address   string `json:"address" form:"address"`
	District  string `json:"District" form:"District"`
	State     string `json:"state" form:"state"`
	Pincode   string `json:"pincode" form:"pincode"`
	Machine   string `json:"machine" form:"machine"`
}

type requestHandler struct {
	s      store.Store
	events events.Publisher
	mailer mail.Mailer
}

func (h *requestHandler) CreateWager(c *fiber.Ctx) error {
	req := &wagerRequest{}
	if err := c.BodyParser(req); err != nil {
		return failed(c, err)
	}

	w := &entity.WagerRequest{
		ID:            primitive.NewObjectID(),
		Firstname:     req.Firstname,
		Lastname:      req.Lastname,
		Email:         req.Email,
		Address:       req.Address,
		District:      req.District,
		State:         req.State,
		Pincode:       req.Pincode,
		NumberofWager: req.NumberofWager,
		Work:          req.Work,
		ContactNo:     req.ContactNo,
	}

	return h.create(c, store.Wagers, w, w.Email, w.Firstname, events.WagerCreated, "wager")
}

func (h *requestHandler) CreateAgri(c *fiber.Ctx) error {
	req := &agriRequest{}
	if err := c.BodyParser(req); err != nil {
		return failed(c, err)
	}

	a := &entity.AgriRequest{
		ID:        primitive.NewObjectID(),
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		ContactNo: req.ContactNo,
		Address:   req.Address,
		District:  req.District,
		State:     req.State,
		Pincode:   req.Pincode,
		Machine:   req.Machine,
	}

	return h.create(c, store.Agris, a, a.Email, a.Firstname, events.AgriCreated, "agricultural machine")
}

func (h *requestHandler) create(c *fiber.Ctx, collection string, record interface{}, email, firstname string, kind events.Kind, label string) error {
	// Parsed form values alias fasthttp's request buffer, which is reused
	// once the handler returns.
	email, firstname = utils.CopyString(email), utils.CopyString(firstname)

	err := h.s.Create(c.UserContext(), collection, record)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			log.Logger.Debug("request already exists", zap.String("collection", collection), zap.String("email", email))
			return rejected(c, errs.ErrRequestExists)
		}

		return failed(c, err)
	}

	publish(c.UserContext(), h.events, kind, email)

	// Receipts go out after the response; failures are only logged.
	go func() {
		if err := h.mailer.SendRequestReceipt(context.Background(), email, firstname, label); err != nil {
			log.Logger.Error("failed sending receipt", zap.Error(err), zap.String("email", email))
		}
	}()

	return c.JSON(fiber.Map{"status": createdStatus})
}

func (h *requestHandler) ListWagers(c *fiber.Ctx) error {
	all := []entity.WagerRequest{}
	if err := h.s.Find(c.UserContext(), store.Wagers, bson.M{}, &all); err != nil {
		return failed(c, err)
	}

	return ok(c, all)
}

func (h *requestHandler) ListAgris(c *fiber.Ctx) error {
	all := []entity.AgriRequest{}
	if err := h.s.Find(c.UserContext(), store.Agris, bson.M{}, &all); err != nil {
		return failed(c, err)
	}

	return ok(c, all)
}

func NewRequestHandler(d Deps) *requestHandler {
	d = d.withDefaults()

	return &requestHandler{
		s:      d.Store,
		events: d.Events,
		mailer: d.Mailer,
	}
}
