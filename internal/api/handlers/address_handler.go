package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thanhnp/electrum-apis/internal/query"
)

// AddressHandler handles address-related API requests
type AddressHandler struct {
	services map[string]query.AddressQuerier
}

// NewAddressHandler creates a new AddressHandler. The services map holds one
// querier per enabled network, keyed by network name.
func NewAddressHandler(services map[string]query.AddressQuerier) *AddressHandler {
	return &AddressHandler{services: services}
}

// service resolves the querier for the request's network, or replies 503
// when that network is not enabled
func (h *AddressHandler) service(c *gin.Context) (query.AddressQuerier, bool) {
	network := c.Param("network")
	svc, ok := h.services[network]
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Network not enabled: " + network})
		return nil, false
	}
	return svc, true
}

// fail maps a query error to an HTTP status
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, query.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, query.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetBalance returns the balance of an address
// GET /api/v1/:network/addresses/:address/balance
func (h *AddressHandler) GetBalance(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	balance, err := svc.Balance(c.Request.Context(), c.Param("address"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// GetHistory returns the transaction history of an address
// GET /api/v1/:network/addresses/:address/history
func (h *AddressHandler) GetHistory(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	history, err := svc.History(c.Request.Context(), c.Param("address"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetUnspents returns the unspent outputs of an address
// GET /api/v1/:network/addresses/:address/unspents
func (h *AddressHandler) GetUnspents(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	unspents, err := svc.Unspents(c.Request.Context(), c.Param("address"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, unspents)
}

// GetScriptHash returns the locking script and Electrum script hash of an
// address without contacting the server
// GET /api/v1/:network/addresses/:address/scripthash
func (h *AddressHandler) GetScriptHash(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	address := c.Param("address")
	script, hash, err := svc.ScriptHash(address)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":     address,
		"network":     c.Param("network"),
		"script":      script,
		"script_hash": hash,
	})
}

// GetTip returns the most recent block header seen for the network
// GET /api/v1/:network/tip
func (h *AddressHandler) GetTip(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	tip, err := svc.Tip()
	if err != nil {
		fail(c, err)
		return
	}
	if tip == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No block seen yet"})
		return
	}

	c.JSON(http.StatusOK, tip)
}
