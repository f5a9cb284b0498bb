package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gilchrisn/localization-viewer/models"
)

// ErrViewNotFound is returned for image names outside the configured views
var ErrViewNotFound = errors.New("view not found")

// roomViews are the renderings of the measurement room shown on the home page
var roomViews = []struct {
	label string
	file  string
}{
	{"Room Front View (3D)", "front_view_3d.png"},
	{"Room Front View", "front_view.png"},
	{"Room Top View", "top_view.png"},
}

// ViewService serves the static room images
type ViewService struct {
	dir     string
	urlBase string
}

// NewViewService creates a view service reading images from dir
func NewViewService(dir, urlBase string) *ViewService {
	return &ViewService{dir: dir, urlBase: strings.TrimSuffix(urlBase, "/")}
}

// List returns the room views whose image exists
func (s *ViewService) List() []models.View {
	views := make([]models.View, 0, len(roomViews))
	for _, v := range roomViews {
		if _, err := os.Stat(filepath.Join(s.dir, v.file)); err != nil {
			log.Debug().
				Str("file", v.file).
				Err(err).
				Msg("Room view image unavailable")
			continue
		}
		views = append(views, models.View{
			Label: v.label,
			File:  v.file,
			URL:   s.urlBase + "/" + v.file,
		})
	}
	return views
}

// Path returns the on-disk path of a known view image
func (s *ViewService) Path(file string) (string, error) {
	for _, v := range roomViews {
		if v.file == file {
			path := filepath.Join(s.dir, v.file)
			if _, err := os.Stat(path); err != nil {
				return "", fmt.Errorf("%w: %s", ErrViewNotFound, file)
			}
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrViewNotFound, file)
}
