package assets

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jhoicas/storesync-api/internal/application/ports"
)

var _ ports.AssetStore = (*DirStore)(nil)

// DirStore almacén de imágenes de artículos sobre un directorio local. Las
// imágenes de un artículo son los archivos cuyo nombre empieza por el código
// del artículo (A100.jpg, A100-2.jpg, ...), ordenados por nombre.
type DirStore struct {
	dir string
}

// NewDirStore construye el almacén sobre el directorio dado.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// FindImages devuelve las imágenes del artículo codificadas en base64, listas
// para el campo attachment de la plataforma. Sin directorio o sin archivos
// devuelve vacío, no error.
func (s *DirStore) FindImages(ctx context.Context, articleCode string) ([]ports.ImageFile, error) {
	if s.dir == "" || articleCode == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer directorio de assets: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		if base == articleCode || strings.HasPrefix(base, articleCode+"-") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var images []ports.ImageFile
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("leer imagen %s: %w", name, err)
		}
		images = append(images, ports.ImageFile{
			Name:   name,
			Base64: base64.StdEncoding.EncodeToString(data),
		})
	}
	return images, nil
}
