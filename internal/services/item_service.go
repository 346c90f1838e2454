package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"wardrobe/internal/apperrors"
	"wardrobe/internal/models"
	"wardrobe/internal/repositories"
	"wardrobe/pkg/rabbitmq"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// filenameSanitizer strips everything that could smuggle path components or
// shell oddities into a stored filename.
var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

var extensionPattern = regexp.MustCompile(`^\.[a-zA-Z0-9]+$`)

// ItemService handles business logic for the clothing item catalog: listing,
// uploads (metadata plus image file), and deletion.
type ItemService struct {
	itemRepo  repositories.ItemRepository
	uploadDir string
	mqClient  *rabbitmq.Client // optional; nil disables event publication
}

// NewItemService creates a new ItemService. The upload directory is created
// on first upload if it does not exist.
func NewItemService(itemRepo repositories.ItemRepository, uploadDir string, mqClient *rabbitmq.Client) *ItemService {
	return &ItemService{
		itemRepo:  itemRepo,
		uploadDir: uploadDir,
		mqClient:  mqClient,
	}
}

// UploadInput carries one multipart upload: the image stream plus optional
// metadata fields.
type UploadInput struct {
	Filename string
	File     io.Reader
	Category string
	Color    string
	ItemType string
	Vibes    []string
}

// List returns all items owned by the user, newest first, serialized for the
// API.
func (s *ItemService) List(userID string) ([]models.ItemResponse, error) {
	items, err := s.itemRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	responses := make([]models.ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, items[i].ToResponse())
	}
	return responses, nil
}

// Upload stores the image under a sanitized, uniquified filename and creates
// the catalog row. Vibes are normalized before storage: split on commas,
// trimmed, empties dropped, duplicates removed preserving first-seen order.
func (s *ItemService) Upload(user *models.User, in UploadInput) (*models.ItemResponse, error) {
	if in.File == nil || strings.TrimSpace(in.Filename) == "" {
		return nil, apperrors.Validation("no file uploaded")
	}

	storedName := uniqueFilename(in.Filename)
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	dst, err := os.Create(filepath.Join(s.uploadDir, storedName))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(dst, in.File); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("failed to close upload file: %w", err)
	}

	item := &models.ClothingItem{
		UserID:        user.ID,
		ImageFilename: storedName,
		Category:      in.Category,
		Color:         in.Color,
		ItemType:      in.ItemType,
		Vibes:         NormalizeVibes(in.Vibes),
	}
	if err := s.itemRepo.Create(item); err != nil {
		os.Remove(filepath.Join(s.uploadDir, storedName))
		return nil, err
	}

	if s.mqClient != nil {
		err := s.mqClient.PublishEvent("item.uploaded", map[string]interface{}{
			"itemID":   item.ID,
			"userID":   user.ID,
			"filename": storedName,
		})
		if err != nil {
			log.Printf("Warning: Failed to publish item uploaded event for item %s: %v", item.ID, err)
		}
	}

	resp := item.ToResponse()
	return &resp, nil
}

// Delete removes an item owned by the user. The backing file removal is
// best-effort; a missing file is not an error.
func (s *ItemService) Delete(userID, itemID string) error {
	item, err := s.itemRepo.GetByIDForUser(itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("item not found")
		}
		return err
	}

	if err := os.Remove(filepath.Join(s.uploadDir, item.ImageFilename)); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Failed to remove file %s for item %s: %v", item.ImageFilename, itemID, err)
	}
	if err := s.itemRepo.Delete(itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("item not found")
		}
		return err
	}

	if s.mqClient != nil {
		err := s.mqClient.PublishEvent("item.deleted", map[string]interface{}{
			"itemID": itemID,
			"userID": userID,
		})
		if err != nil {
			log.Printf("Warning: Failed to publish item deleted event for item %s: %v", itemID, err)
		}
	}
	return nil
}

// ResolvePath maps a requested upload filename to its on-disk path. The name
// is reduced to its base component so callers cannot traverse out of the
// upload directory.
func (s *ItemService) ResolvePath(filename string) string {
	return filepath.Join(s.uploadDir, filepath.Base(filename))
}

// NormalizeVibes splits comma-joined values, trims whitespace, drops empty
// entries, and removes duplicates while preserving first-seen order.
func NormalizeVibes(values []string) []string {
	normalized := make([]string, 0, len(values))
	seen := make(map[string]bool)
	for _, value := range values {
		for _, vibe := range strings.Split(value, ",") {
			vibe = strings.TrimSpace(vibe)
			if vibe == "" || seen[vibe] {
				continue
			}
			seen[vibe] = true
			normalized = append(normalized, vibe)
		}
	}
	return normalized
}

// uniqueFilename sanitizes the client-supplied name and appends a
// microsecond timestamp plus a random suffix, so two uploads of the same
// file in the same microsecond still get distinct names.
func uniqueFilename(original string) string {
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	stem = filenameSanitizer.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._")
	if stem == "" {
		stem = "upload"
	}
	if !extensionPattern.MatchString(ext) {
		ext = ""
	}

	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("%s_%d_%s%s", stem, time.Now().UnixMicro(), suffix, ext)
}
