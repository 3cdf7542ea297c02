package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"civicsync/store"
)

type UserController struct {
	identities store.IdentitySource
	log        *logrus.Logger
}

func NewUserController(identities store.IdentitySource, log *logrus.Logger) *UserController {
	return &UserController{identities: identities, log: log}
}

// GetUser looks up a user's public identity.
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	identity, err := uc.identities.GetIdentity(ctx, id)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, identity)
}
