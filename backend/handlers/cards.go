package handlers

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilm/fuzzy"

	webmodels "github.com/cardbazar/cardbazar/backend/models"
	"github.com/cardbazar/cardbazar/backend/utils"
	"github.com/cardbazar/cardbazar/marketplace/database/models"
)

const cardPageLimit = 50

// cardNames adapts a card slice to the fuzzy matcher.
type cardNames []*models.Card

func (c cardNames) String(i int) string { return c[i].Name }
func (c cardNames) Len() int            { return len(c) }

// ListCards returns the card catalog. A search term switches to fuzzy
// matching over card names, ranked by match score.
func (w *WebApp) ListCards(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return utils.SendBadRequest(c, "Invalid page", nil)
	}
	offset := (page - 1) * cardPageLimit

	search := strings.TrimSpace(c.Query("search"))
	if search != "" {
		all, err := w.Repos.Card.GetAll(c.Context())
		if err != nil {
			slog.Error("Failed to load card catalog", slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to load cards")
		}

		matches := fuzzy.FindFrom(search, cardNames(all))
		ranked := make([]*models.Card, 0, len(matches))
		for _, m := range matches {
			ranked = append(ranked, all[m.Index])
		}

		total := int64(len(ranked))
		if offset >= len(ranked) {
			ranked = nil
		} else {
			end := offset + cardPageLimit
			if end > len(ranked) {
				end = len(ranked)
			}
			ranked = ranked[offset:end]
		}

		pagination := webmodels.NewPaginationInfo(page, cardPageLimit, total)
		return utils.SendPaginated(c, ranked, pagination, "")
	}

	cards, err := w.Repos.Card.List(c.Context(), offset, cardPageLimit)
	if err != nil {
		slog.Error("Failed to list cards", slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to load cards")
	}

	total, err := w.Repos.Card.Count(c.Context())
	if err != nil {
		slog.Error("Failed to count cards", slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to load cards")
	}

	pagination := webmodels.NewPaginationInfo(page, cardPageLimit, total)
	return utils.SendPaginated(c, cards, pagination, "")
}

// GetCard returns a single card by id
func (w *WebApp) GetCard(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid card id", nil)
	}

	card, err := w.Repos.Card.GetByID(c.Context(), id)
	if err != nil {
		return utils.SendNotFound(c, "Card not found")
	}
	return utils.SendSuccess(c, card, "")
}

// CreateCard adds a card to the catalog. Admin only. The card art arrives
// as a multipart "image" file and is stored in Spaces.
func (w *WebApp) CreateCard(c *fiber.Ctx) error {
	var req webmodels.CreateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.SendBadRequest(c, "Card name is required", nil)
	}

	rarity := models.Rarity(req.Rarity)
	if !rarity.Valid() {
		return utils.SendBadRequest(c, "Unknown rarity", map[string]string{"rarity": req.Rarity})
	}

	var imageURL string
	if file, err := c.FormFile("image"); err == nil {
		if w.SpacesService == nil {
			return utils.SendInternalServerError(c, "Image storage not configured")
		}

		src, err := file.Open()
		if err != nil {
			return utils.SendBadRequest(c, "Unreadable image file", nil)
		}
		defer src.Close()

		fileName := fmt.Sprintf("%s%s", slugify(req.Name), filepath.Ext(file.Filename))
		contentType := file.Header.Get("Content-Type")

		imageURL, err = w.SpacesService.UploadCardImage(c.Context(), fileName, src, contentType)
		if err != nil {
			slog.Error("Card image upload failed",
				slog.String("card", req.Name),
				slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to store card image")
		}
	}

	card := &models.Card{
		Name:     req.Name,
		Rarity:   rarity,
		ImageURL: imageURL,
	}
	if err := w.Repos.Card.Create(c.Context(), card); err != nil {
		slog.Error("Failed to create card", slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to create card")
	}

	return utils.SendCreated(c, card, "Card created")
}

// slugify lowercases a name and collapses non-alphanumerics to dashes so
// it can serve as an object key.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
