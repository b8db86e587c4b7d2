package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"gorm.io/gorm"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/repos"
	"github.com/dosyammh/critic/internal/types"
)

// Default palette for generated initial avatars.
var avatarPalette = []color.NRGBA{
	{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF},
	{R: 0x8E, G: 0x24, B: 0xAA, A: 0xFF},
	{R: 0x39, G: 0x49, B: 0xAB, A: 0xFF},
	{R: 0x03, G: 0x9B, B: 0xE5, A: 0xFF},
	{R: 0x00, G: 0x89, B: 0x7B, A: 0xFF},
	{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	{R: 0xF4, G: 0x51, B: 0x1E, A: 0xFF},
	{R: 0x6D, G: 0x4C, B: 0x41, A: 0xFF},
}

type AvatarService interface {
	// CreateUserAvatar renders an initials avatar, stores it under the media
	// directory, and points the user's avatar fields at the new file.
	CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error
	// CreateUserAvatarFromImage replaces the avatar with an uploaded image,
	// center-cropped, resized, and clipped to a circle.
	CreateUserAvatarFromImage(ctx context.Context, tx *gorm.DB, user *types.User, raw []byte) error
	GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	log      *logger.Logger
	userRepo repos.UserRepo

	mediaDir   string
	publicBase string

	colorByHex map[string]color.NRGBA
	fontFace   font.Face
}

func NewAvatarService(baseLog *logger.Logger, userRepo repos.UserRepo, mediaDir, publicBase string) (AvatarService, error) {
	serviceLog := baseLog.With("service", "AvatarService")

	if strings.TrimSpace(mediaDir) == "" {
		return nil, fmt.Errorf("media directory is empty")
	}
	if err := os.MkdirAll(filepath.Join(mediaDir, "avatars"), 0o755); err != nil {
		return nil, fmt.Errorf("could not create avatar media directory: %w", err)
	}

	colorByHex := make(map[string]color.NRGBA, len(avatarPalette))
	for _, c := range avatarPalette {
		colorByHex[nrgbaToHex(c)] = c
	}

	face, err := loadFontFace(206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		log:        serviceLog,
		userRepo:   userRepo,
		mediaDir:   mediaDir,
		publicBase: strings.TrimRight(publicBase, "/"),
		colorByHex: colorByHex,
		fontFace:   face,
	}, nil
}

func (as *avatarService) CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error {
	as.ensureUserAvatarColor(user)

	buf, err := as.GenerateUserAvatar(user)
	if err != nil {
		return err
	}
	return as.storeAvatar(ctx, tx, user, buf.Bytes())
}

func (as *avatarService) CreateUserAvatarFromImage(ctx context.Context, tx *gorm.DB, user *types.User, raw []byte) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}
	processed, err := processUploadedAvatar(raw, 512)
	if err != nil {
		return err
	}
	return as.storeAvatar(ctx, tx, user, processed.Bytes())
}

func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
	const size = 512
	as.ensureUserAvatarColor(user)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(as.pickColor(user.AvatarColor))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(user.DisplayName, user.Username)
	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2
	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2), cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// storeAvatar writes a versioned file so stale browser caches never serve an
// old avatar, then removes the previous file best-effort.
func (as *avatarService) storeAvatar(ctx context.Context, tx *gorm.DB, user *types.User, data []byte) error {
	oldPath := strings.TrimSpace(user.AvatarPath)

	name := fmt.Sprintf("%s-%d.png", user.ID.String(), time.Now().UnixNano())
	newPath := filepath.Join(as.mediaDir, "avatars", name)
	if err := os.WriteFile(newPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write avatar file: %w", err)
	}

	user.AvatarPath = newPath
	user.AvatarURL = as.publicBase + "/avatars/" + name

	if err := as.userRepo.UpdateAvatarFields(ctx, tx, user.ID, user.AvatarColor, user.AvatarPath, user.AvatarURL); err != nil {
		return fmt.Errorf("failed to persist avatar fields: %w", err)
	}

	if oldPath != "" && oldPath != newPath {
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			as.log.Warn("failed to delete old avatar (ignored)", "path", oldPath, "error", err)
		}
	}
	return nil
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func (as *avatarService) ensureUserAvatarColor(user *types.User) {
	if n := normalizeHex(user.AvatarColor); n != "" {
		if _, ok := as.colorByHex[n]; ok {
			user.AvatarColor = n
			return
		}
	}
	// Deterministic pick so the same username always lands on the same color.
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(user.Username)))
	pick := avatarPalette[int(h.Sum32())%len(avatarPalette)]
	user.AvatarColor = nrgbaToHex(pick)
}

func (as *avatarService) pickColor(hexStr string) color.NRGBA {
	if h := normalizeHex(hexStr); h != "" {
		if c, ok := as.colorByHex[h]; ok {
			return c
		}
	}
	return avatarPalette[0]
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	s = strings.ToUpper(s)
	if len(s) != 7 {
		return ""
	}
	if _, _, _, err := parseHexRGB(s); err != nil {
		return ""
	}
	return s
}

func parseHexRGB(s string) (r, g, b uint8, err error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("expected 6 hex chars")
	}
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid hex")
	}
	return raw[0], raw[1], raw[2], nil
}

func nrgbaToHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func computeInitials(displayName, username string) string {
	fields := strings.Fields(displayName)
	switch {
	case len(fields) >= 2:
		return upperFirstRune(fields[0]) + upperFirstRune(fields[1])
	case len(fields) == 1:
		return upperFirstRune(fields[0])
	case username != "":
		return upperFirstRune(username)
	default:
		return "?"
	}
}

func upperFirstRune(s string) string {
	for _, r := range s {
		return strings.ToUpper(string(r))
	}
	return "?"
}

func loadFontFace(size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
