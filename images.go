package portfolio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// Image describes a processed blog image.
type Image struct {
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int    `json:"size"`
	UploadedAt   string `json:"uploadedAt"`
}

// processImage decodes an image from src, resizes it down to maxImageWidth
// if wider, and re-encodes it as JPEG. Returns metadata and the encoded bytes.
func processImage(src io.Reader, originalName string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return Image{
		Filename:     slugifyFilename(originalName) + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if s := Slugify(base); s != "" {
		return s
	}
	return "image"
}

// uniqueFilename appends a counter when filename is already taken in dir.
func uniqueFilename(dir, filename string) string {
	base := strings.TrimSuffix(filename, ".jpg")
	candidate := filename
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, i)
	}
}

func (a *App) uploadsDir() string {
	return filepath.Join(a.staticDir, uploadsSubdir)
}

// handleImageUpload accepts a multipart "image" field, processes it, and
// stores the result under the static uploads directory.
func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Image file is required")
	}
	if file.Size > maxUploadSize {
		return jsonError(c, http.StatusBadRequest, "Image exceeds the 10MB limit")
	}
	src, err := file.Open()
	if err != nil {
		c.Logger().Errorf("open upload: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to read upload")
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Unsupported or corrupt image")
	}

	dir := a.uploadsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.Logger().Errorf("create uploads dir: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to store image")
	}
	img.Filename = uniqueFilename(dir, img.Filename)
	if err := os.WriteFile(filepath.Join(dir, img.Filename), data, 0o644); err != nil {
		c.Logger().Errorf("write image: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to store image")
	}
	img.URL = "/" + uploadsSubdir + "/" + img.Filename

	return c.JSON(http.StatusCreated, img)
}

// handleImageList returns the stored images, newest first.
func (a *App) handleImageList(c echo.Context) error {
	entries, err := os.ReadDir(a.uploadsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return c.JSON(http.StatusOK, []Image{})
		}
		c.Logger().Errorf("read uploads dir: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to list images")
	}
	images := make([]Image, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jpg") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		images = append(images, Image{
			Filename:   e.Name(),
			URL:        "/" + uploadsSubdir + "/" + e.Name(),
			Size:       int(info.Size()),
			UploadedAt: info.ModTime().UTC().Format(time.RFC3339),
		})
	}
	sort.Slice(images, func(i, j int) bool {
		return images[i].UploadedAt > images[j].UploadedAt
	})
	return c.JSON(http.StatusOK, images)
}
