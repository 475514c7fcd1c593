package handler

import (
	"net/http"
	"strconv"

	"auditex/internal/apierror"
	"auditex/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type NotificationsHandler struct{ rdb *redis.Client }

func NewNotificationsHandler(rdb *redis.Client) *NotificationsHandler {
	return &NotificationsHandler{rdb: rdb}
}

// Rejouer requeues parked notification jobs after an SMTP outage.
func (h *NotificationsHandler) Rejouer(c *gin.Context) {
	max, err := strconv.Atoi(c.DefaultQuery("max", "100"))
	if err != nil || max < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("Paramètre 'max' invalide"))
		return
	}
	n, err := worker.RejouerDLQ(c.Request.Context(), h.rdb, worker.QueueNotification, max)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors du rejeu des notifications"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"rejouees": n})
}
