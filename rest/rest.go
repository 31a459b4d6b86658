package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/mysubb01/sutda-sub000/game"
	"github.com/mysubb01/sutda-sub000/sutda"
)

var restLogger = log.With().Str("logger_name", "rest::rest").Logger()

type appError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Server struct {
	manager *game.Manager
	limiter *rate.Limiter
}

func NewServer(manager *game.Manager, disableRateLimiter bool) *Server {
	var limiter *rate.Limiter
	if !disableRateLimiter {
		// Command boundary throttle; generous for small tables.
		limiter = rate.NewLimiter(rate.Limit(200), 400)
	}
	return &Server{
		manager: manager,
		limiter: limiter,
	}
}

func (s *Server) Run(port int) error {
	r := gin.Default()
	if s.limiter != nil {
		r.Use(s.throttle)
	}

	r.GET("/health", s.health)
	r.POST("/sessions", s.createSession)
	r.GET("/sessions/:sessionID", s.getSession)
	r.POST("/sessions/:sessionID/join", s.joinSeat)
	r.POST("/sessions/:sessionID/ready", s.setReady)
	r.POST("/sessions/:sessionID/start", s.startHand)
	r.POST("/sessions/:sessionID/bet", s.bet)
	r.POST("/sessions/:sessionID/select", s.selectCards)
	r.POST("/sessions/:sessionID/leave", s.leaveSeat)

	restLogger.Info().Msgf("Listening on port %d", port)
	return r.Run(fmt.Sprintf(":%d", port))
}

func (s *Server) throttle(c *gin.Context) {
	if !s.limiter.Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, appError{
			Kind:    "RATE_LIMITED",
			Message: "Too many requests",
		})
		return
	}
	c.Next()
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "OK",
		"activeSessions": s.manager.ActiveSessionCount(),
	})
}

func respondError(c *gin.Context, err error) {
	kind := game.ErrorKind(err)
	status := http.StatusBadRequest
	switch kind {
	case "NOT_FOUND":
		status = http.StatusNotFound
	case "INTERNAL_ERROR", "INSUFFICIENT_CARDS":
		status = http.StatusInternalServerError
	}
	c.JSON(status, appError{Kind: kind, Message: err.Error()})
}

type createSessionReq struct {
	Mode    string `json:"mode"`
	BaseBet int64  `json:"baseBet"`
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Kind: "BAD_REQUEST", Message: err.Error()})
		return
	}
	session, err := s.manager.CreateSession(game.GameMode(req.Mode), req.BaseBet)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.GetSnapshot(""))
}

func (s *Server) session(c *gin.Context) (*game.Session, bool) {
	session, err := s.manager.GetSession(c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return session, true
}

func (s *Server) getSession(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.GetSnapshot(c.Query("playerId")))
}

type joinSeatReq struct {
	PlayerID string `json:"playerId"`
	SeatNo   *int   `json:"seatNo"`
	Name     string `json:"name"`
}

func (s *Server) joinSeat(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	var req joinSeatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Kind: "BAD_REQUEST", Message: err.Error()})
		return
	}
	if req.PlayerID == "" {
		// Identity layer normally supplies the ID; generate one for
		// anonymous joins.
		req.PlayerID = uuid.New().String()
	}
	seatNo := -1
	if req.SeatNo != nil {
		seatNo = *req.SeatNo
	}
	snapshot, err := session.Join(req.PlayerID, req.Name, seatNo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playerId": req.PlayerID, "snapshot": snapshot})
}

type setReadyReq struct {
	PlayerID string `json:"playerId"`
	Ready    bool   `json:"ready"`
}

func (s *Server) setReady(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	var req setReadyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Kind: "BAD_REQUEST", Message: err.Error()})
		return
	}
	snapshot, err := session.SetReady(req.PlayerID, req.Ready)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type startHandReq struct {
	PlayerID string `json:"playerId"`
}

func (s *Server) startHand(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	var req startHandReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Kind: "BAD_REQUEST", Message: err.Error()})
		return
	}
	snapshot, err := session.StartHand(req.PlayerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type betReq struct {
	PlayerID string `json:"playerId"`
	Action   string `json:"action"`
	Amount   int64  `json:"amount"`
}

func (s *Server) bet(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	var req betReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Kind: "BAD_REQUEST", Message: err.Error()})
		return
	}
	snapshot, err := session.Bet(req.PlayerID, game.ActionKind(req.Action), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type selectCardsReq struct {
	PlayerID string   `json:"playerId"`
	Cards    []string `json:"cards"`
}

func (s *Server) selectCards(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	var req selectCardsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Kind: "BAD_REQUEST", Message: err.Error()})
		return
	}
	cards := make([]sutda.Card, 0, len(req.Cards))
	for _, cardStr := range req.Cards {
		card, err := sutda.NewCardFromString(cardStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, appError{Kind: "BAD_REQUEST", Message: err.Error()})
			return
		}
		cards = append(cards, card)
	}
	snapshot, err := session.SelectCards(req.PlayerID, cards)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type leaveSeatReq struct {
	PlayerID string `json:"playerId"`
}

func (s *Server) leaveSeat(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	var req leaveSeatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Kind: "BAD_REQUEST", Message: err.Error()})
		return
	}
	snapshot, err := session.Leave(req.PlayerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
