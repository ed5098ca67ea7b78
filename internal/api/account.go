package api

import (
	"net/http"
	"strconv"
	"strings"
	"zyntra/internal/assistant"
	"zyntra/internal/calc"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type chatPayload struct {
	Message string `json:"message"`
}

// GET /referral/tier?friends=N
func (h *Handler) referralTier(c *gin.Context) {
	friends, err := strconv.Atoi(c.DefaultQuery("friends", "0"))
	if err != nil || friends < 0 {
		writeError(c, http.StatusBadRequest, errors.New("friends must be a non-negative integer"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"friends": friends,
		"tier":    calc.TierFor(friends),
		"tiers":   calc.ReferralTiers(),
	})
}

func (h *Handler) login(c *gin.Context) {
	h.authenticate(c, false)
}

func (h *Handler) signup(c *gin.Context) {
	h.authenticate(c, true)
}

// authenticate: только проверка непустых полей и задержка, настоящей авторизации нет.
func (h *Handler) authenticate(c *gin.Context, signup bool) {
	var cred credentials
	if err := c.ShouldBindJSON(&cred); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(cred.Email) == "" || cred.Password == "" ||
		(signup && strings.TrimSpace(cred.Name) == "") {
		writeError(c, http.StatusBadRequest, errors.New("all fields are required"))
		return
	}
	if err := h.sleep(c.Request.Context(), h.settings.AuthDelay); err != nil {
		writeDomainError(c, err)
		return
	}
	status := http.StatusOK
	if signup {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"ok":      true,
		"email":   cred.Email,
		"session": uuid.NewString(),
	})
}

func (h *Handler) assistantGreeting(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"role": "model", "text": assistant.Greeting})
}

// POST /assistant/chat: всегда 200: при сбое сервиса отдаётся запасной текст.
func (h *Handler) chat(c *gin.Context) {
	var payload chatPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		writeError(c, http.StatusBadRequest, errEmptyMessage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": "model", "text": h.assistant.Reply(c.Request.Context(), payload.Message)})
}
