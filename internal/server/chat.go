package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kazumasakawahara/inheritance-calculator/internal/interview"
)

// chatSession serializes access to one interview agent. The agent mutates
// its state and history on every Process call, so concurrent requests to
// the same session must take turns.
type chatSession struct {
	mu    sync.Mutex
	agent *interview.Agent
}

// StartSession opens a new interview session and returns its opening
// question. Sessions live in memory; a restart discards them.
func (s *Server) StartSession(c *gin.Context) {
	agent := interview.NewAgent(s.LLM, s.Config.Interview)
	message := agent.Start()

	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = &chatSession{agent: agent}
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{
		"session_id": id,
		"message":    message,
		"state":      agent.CurrentState(),
	})
}

func (s *Server) GetSession(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	sess.mu.Lock()
	state := sess.agent.CurrentState()
	completed := sess.agent.Completed()
	history := sess.agent.History()
	sess.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"state":     state,
		"completed": completed,
		"history":   history,
	})
}

type PostMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) PostMessage(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sess.mu.Lock()
	reply, err := sess.agent.Process(c.Request.Context(), req.Message)
	state := sess.agent.CurrentState()
	completed := sess.agent.Completed()
	sess.mu.Unlock()

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   reply,
		"state":     state,
		"completed": completed,
	})
}

// CalculateFromSession runs the engine directly on the facts a completed
// interview collected, without persisting them as a case.
func (s *Server) CalculateFromSession(c *gin.Context) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	sess.mu.Lock()
	family, err := sess.agent.Family()
	sess.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	result, err := s.Calculator.Calculate(family)
	if err != nil {
		s.renderCalculationError(c, err)
		return
	}
	c.JSON(http.StatusOK, calculationResponse("", result))
}

func (s *Server) session(id string) (*chatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}
