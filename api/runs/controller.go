// Package runsapi serves archived reports of finished runs.
package runsapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/vinom-biolab/game"
	"github.com/beka-birhanu/vinom-biolab/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// RunsController reads the run archive.
type RunsController struct {
	sessions i.SessionManager
	logger   i.Logger
}

// NewRunsController initializes a RunsController.
func NewRunsController(sm i.SessionManager, logger i.Logger) (*RunsController, error) {
	if sm == nil || logger == nil {
		return nil, errors.New("runs controller requires a session manager and a logger")
	}
	return &RunsController{
		sessions: sm,
		logger:   logger,
	}, nil
}

// RegisterPublic registers public routes.
func (rc *RunsController) RegisterPublic(route *gin.RouterGroup) {
	runs := route.Group("/runs")
	{
		runs.GET("", rc.recent)
		runs.GET("/:ID", rc.byID)
	}
}

// RegisterProtected registers protected routes.
func (rc *RunsController) RegisterProtected(route *gin.RouterGroup) {}

// recent lists the latest reports, newest first.
func (rc *RunsController) recent(ctx *gin.Context) {
	limit := defaultLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be an integer in 1..%d", maxLimit)})
			return
		}
		limit = n
	}

	reports, err := rc.sessions.RecentRuns(ctx, int64(limit))
	if err != nil {
		rc.logger.Error(fmt.Sprintf("listing recent runs: %v", err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not list runs"})
		return
	}
	if reports == nil {
		reports = []*game.Report{}
	}
	ctx.JSON(http.StatusOK, reports)
}

func (rc *RunsController) byID(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "malformed run id"})
		return
	}

	report, err := rc.sessions.Run(ctx, id)
	if errors.Is(err, i.ErrRunNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		rc.logger.Error(fmt.Sprintf("reading run %s: %v", id, err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not read run"})
		return
	}
	ctx.JSON(http.StatusOK, report)
}
