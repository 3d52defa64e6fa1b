package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-service/internal/app"
	"github.com/jsamuelsen/quote-service/internal/domain"
)

// ContentTypeSVG is the media type of rendered quotes.
const ContentTypeSVG = "image/svg+xml; charset=utf-8"

var quotesServedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quote_service_quotes_served_total",
		Help: "Total number of quotes served, by endpoint and response format.",
	},
	[]string{"endpoint", "format"},
)

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// GetRandomQuote handles GET /quotes/random
// Returns a random quote, optionally restricted to one category.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json,image/svg+xml
// @Param quote_type query string false "inspiration or practical"
// @Param response_type query string false "json (default) or svg"
// @Param theme query string false "light (default) or dark"
// @Param width query int false "SVG width, 400-600"
// @Param height query int false "SVG height, 175-300"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.RateLimitResponse
// @Router /quotes/random [get]
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	var q dto.QuoteQuery
	if err := dto.BindQuery(c, &q); err != nil {
		dto.HandleError(c, err)
		return
	}

	opts, err := q.Options()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	quote, err := h.service.GetRandomQuote(c.Request.Context(), opts.Type)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respond(c, "random", quote, opts)
}

// GetQuoteByID handles GET /quotes/:id
// Returns the quote with the given numeric identifier. The quote_type
// parameter is not part of this route and is ignored.
//
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json,image/svg+xml
// @Param id path int true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.RateLimitResponse
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetQuoteByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		dto.HandleError(c, dto.FieldErrors{"id": "must be an integer"})
		return
	}

	var q dto.QuoteQuery
	if err := dto.BindQuery(c, &q); err != nil {
		dto.HandleError(c, err)
		return
	}

	q.QuoteType = ""

	opts, err := q.Options()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	quote, err := h.service.GetQuoteByID(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respond(c, "by_id", quote, opts)
}

// respond writes quote in the representation chosen by opts.Format.
func (h *QuoteHandler) respond(c *gin.Context, endpoint string, quote *domain.Quote, opts *dto.QuoteOptions) {
	quotesServedTotal.WithLabelValues(endpoint, string(opts.Format)).Inc()

	if opts.Format == domain.ResponseFormatSVG {
		svg := h.service.RenderQuote(c.Request.Context(), quote, opts.Render)
		c.Data(http.StatusOK, ContentTypeSVG, []byte(svg))
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("/random", h.GetRandomQuote)
	quotes.GET("/:id", h.GetQuoteByID)
}
