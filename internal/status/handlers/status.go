package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/brandon-urgd/stitch/internal/status/models"
	"github.com/brandon-urgd/stitch/internal/status/repository"
	"github.com/brandon-urgd/stitch/internal/status/service"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ============================================================
// Status Handler
// ============================================================

type StatusHandler struct {
	repo         *repository.Repository
	storage      *service.FileStorage
	converterURL string
}

func NewStatusHandler(repo *repository.Repository, storage *service.FileStorage, converterURL string) *StatusHandler {
	return &StatusHandler{
		repo:         repo,
		storage:      storage,
		converterURL: converterURL,
	}
}

// CreateUpload принимает SVG, заводит job и запускает конвертацию в фоне.
// Клиент дальше опрашивает GET /status/:request_id.
func (h *StatusHandler) CreateUpload(c fiber.Ctx) error {
	log.Printf("[STATUS] Upload request")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required in multipart/form-data"})
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".svg" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "only svg allowed"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	requestID := uuid.NewString()

	if err := h.storage.SaveSVG(requestID, data); err != nil {
		log.Printf("[STATUS] save svg error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	if err := h.repo.Create(context.Background(), requestID); err != nil {
		log.Printf("[STATUS] create job error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create job"})
	}

	log.Printf("[STATUS] Created job %s (%s, %d bytes)", requestID, fileHeader.Filename, len(data))

	go h.runConversion(requestID)

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"request_id": requestID,
		"status":     models.StatusUploading,
	})
}

// GetStatus отдает состояние конвертации для опроса фронтендом.
func (h *StatusHandler) GetStatus(c fiber.Ctx) error {
	requestID := c.Params("request_id")
	if requestID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "request_id required"})
	}

	job, err := h.repo.Get(context.Background(), requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"status":  "not_found",
				"message": "Request ID not found",
			})
		}
		log.Printf("[STATUS] get job error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to check status"})
	}

	switch job.Status {
	case models.StatusConverted:
		return c.JSON(fiber.Map{
			"status":       "ready",
			"download_url": "/files/" + requestID,
			"stitch_count": job.StitchCount,
			"quality":      job.Quality,
			"message":      "Conversion complete",
		})

	case models.StatusFailed:
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"status":  job.Status,
			"message": "Conversion failed",
			"error":   job.Error,
		})

	default: // uploading, converting
		messages := map[string]string{
			models.StatusUploading:  "Uploading file...",
			models.StatusConverting: "Converting SVG to embroidery format...",
		}
		message := messages[job.Status]
		if message == "" {
			message = "Processing in progress"
		}
		return c.Status(http.StatusAccepted).JSON(fiber.Map{
			"status":    job.Status,
			"message":   message,
			"timestamp": job.Timestamp,
		})
	}
}

// DownloadPES отдает готовый файл вышивки.
func (h *StatusHandler) DownloadPES(c fiber.Ctx) error {
	requestID := c.Params("request_id")

	job, err := h.repo.Get(context.Background(), requestID)
	if err != nil || job.Status != models.StatusConverted {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "file not ready"})
	}

	path := h.storage.PESPath(requestID)
	if _, err := os.Stat(path); err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
	}

	c.Set("Content-Type", "application/octet-stream")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pes"`, requestID))
	return c.SendFile(path)
}

// ============================================================
// Conversion worker
// ============================================================

// runConversion гонит job через Converter Service и сохраняет результат.
func (h *StatusHandler) runConversion(requestID string) {
	ctx := context.Background()

	if err := h.repo.SetStatus(ctx, requestID, models.StatusConverting); err != nil {
		log.Printf("[STATUS] set status error: %v", err)
	}

	pesData, stitchCount, quality, err := h.convertSVG(h.storage.SVGPath(requestID))
	if err != nil {
		log.Printf("[STATUS] conversion failed for %s: %v", requestID, err)
		if dbErr := h.repo.MarkFailed(ctx, requestID, err.Error()); dbErr != nil {
			log.Printf("[STATUS] mark failed error: %v", dbErr)
		}
		return
	}

	if err := h.storage.SavePES(requestID, pesData); err != nil {
		log.Printf("[STATUS] save pes error: %v", err)
		if dbErr := h.repo.MarkFailed(ctx, requestID, "failed to store result"); dbErr != nil {
			log.Printf("[STATUS] mark failed error: %v", dbErr)
		}
		return
	}

	if err := h.repo.MarkConverted(ctx, requestID, h.storage.PESPath(requestID), stitchCount, quality); err != nil {
		log.Printf("[STATUS] mark converted error: %v", err)
		return
	}

	// исходник больше не нужен
	if err := h.storage.RemoveSVG(requestID); err != nil {
		log.Printf("[STATUS] cleanup warning: %v", err)
	}

	log.Printf("[STATUS] Job %s converted: %d stitches, quality %s", requestID, stitchCount, quality)
}

// convertSVG шлет SVG в Converter Service и возвращает PES + метрики.
func (h *StatusHandler) convertSVG(svgPath string) ([]byte, int, string, error) {
	if h.converterURL == "" {
		return nil, 0, "", fmt.Errorf("converter url is empty")
	}

	svgData, err := os.ReadFile(svgPath)
	if err != nil {
		return nil, 0, "", err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(svgPath))
	if err != nil {
		return nil, 0, "", err
	}
	if _, err := part.Write(svgData); err != nil {
		return nil, 0, "", err
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, h.converterURL+"/convert", bytes.NewReader(body.Bytes()))
	if err != nil {
		return nil, 0, "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, "", err
	}

	if resp.StatusCode >= 300 {
		return nil, 0, "", fmt.Errorf("converter status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	stitchCount, _ := strconv.Atoi(resp.Header.Get("X-Stitch-Count"))
	quality := resp.Header.Get("X-Quality")

	return data, stitchCount, quality, nil
}
