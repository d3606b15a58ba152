package simulationapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/beka-birhanu/vinom-biolab/game"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// run upgrades to a websocket and streams one StepResponse per auto-run tick.
// The socket is closed with a normal closure once the robot stops moving.
func (sc *SimulationController) run(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	delay := sc.defaultDelay
	if raw := ctx.Query("delay_ms"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "delay_ms must be an integer"})
			return
		}
		delay = clampDelay(time.Duration(ms) * time.Millisecond)
	}

	if _, err := sc.sessions.State(id); err != nil {
		sc.respondError(ctx, err)
		return
	}

	conn, err := sc.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// The upgrader has already replied.
		return
	}
	defer conn.Close()

	runCtx, cancel := context.WithCancel(ctx.Request.Context())
	defer cancel()

	// The client sends nothing; reading only surfaces its close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	err = sc.sessions.AutoRun(runCtx, id, delay, func(state game.State, moved bool) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(&StepResponse{State: state, StepSuccess: moved})
	})

	code, reason := websocket.CloseNormalClosure, "run finished"
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		return
	default:
		sc.logger.Warning(fmt.Sprintf("auto-run of session %s stopped: %v", id, err))
		code, reason = websocket.CloseInternalServerErr, "run interrupted"
	}
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func clampDelay(d time.Duration) time.Duration {
	switch {
	case d < MinAutoRunDelay:
		return MinAutoRunDelay
	case d > MaxAutoRunDelay:
		return MaxAutoRunDelay
	}
	return d
}
