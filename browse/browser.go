package browse

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/coocood/freecache"
	"github.com/golang/snappy"

	"github.com/skylark-imaging/cubeview/imagesource"
	"github.com/skylark-imaging/cubeview/session"
)

// FileBrowser is the concrete session.Browser: it lists directories
// under BaseFolder, serves extended file info, enforces a
// PermissionPolicy, and caches both across repeated OPEN_FILE/browse
// calls the way DVID's storage layer snappy-compresses cached values
// before putting them in an LRU (SPEC_FULL.md DOMAIN STACK).
type FileBrowser struct {
	BaseFolder string
	APIKey     string
	Policy     PermissionPolicy

	cache *freecache.Cache

	// synthetic maps a "directory/file" key to an in-memory
	// imagesource.Source installed by RegisterSynthetic, standing in for the FITS/HDF5/CASA/MIRIAD decoders spec.md §1
	// excludes; demos and tests populate this instead of touching disk.
	synthetic map[string]imagesource.Source
}

// NewFileBrowser builds a FileBrowser with a freecache LRU sized
// cacheBytes (wired from the TOML [cache] table, SPEC_FULL.md AMBIENT
// STACK).
func NewFileBrowser(baseFolder, apiKey string, policy PermissionPolicy, cacheBytes int) *FileBrowser {
	return &FileBrowser{
		BaseFolder: baseFolder,
		APIKey:     apiKey,
		Policy:     policy,
		cache:      freecache.NewCache(cacheBytes),
		synthetic:  make(map[string]imagesource.Source),
	}
}

// RegisterSynthetic installs an in-memory imagesource.Source for
// directory/file, used by demos that want FILE_LIST/OPEN_FILE to
// resolve without a real decoder present.
func (b *FileBrowser) RegisterSynthetic(directory, file string, src imagesource.Source) {
	b.synthetic[directory+"/"+file] = src
}

func (b *FileBrowser) resolve(directory string) string {
	return filepath.Join(b.BaseFolder, directory)
}

func (b *FileBrowser) IsDirectoryReadable(dir string) bool {
	return b.Policy.IsDirectoryReadable(b.APIKey, dir)
}

// ListDirectory enumerates one directory's entries (restored from
// original_source/Session.cc's getFileList), caching the result.
func (b *FileBrowser) ListDirectory(dir string) ([]session.FileEntry, error) {
	if !b.Policy.IsDirectoryReadable(b.APIKey, dir) {
		return nil, fmt.Errorf("permission denied for directory %q", dir)
	}

	cacheKey := []byte("list:" + dir)
	if cached, err := b.cache.Get(cacheKey); err == nil {
		return decodeEntries(cached)
	}

	full := b.resolve(dir)
	infos, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}
	entries := make([]session.FileEntry, 0, len(infos))
	for _, info := range infos {
		fi, err := info.Info()
		if err != nil {
			continue
		}
		entry := session.FileEntry{Name: info.Name(), IsDir: info.IsDir(), Size: fi.Size()}
		if !info.IsDir() {
			if src, ok := b.synthetic[dir+"/"+info.Name()]; ok {
				entry.HDUList = []string{fmt.Sprintf("0 (%dx%d)", src.Shape().Width, src.Shape().Height)}
			}
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	if encoded, err := encodeEntries(entries); err == nil {
		_ = b.cache.Set(cacheKey, snappy.Encode(nil, encoded), 0)
	}
	return entries, nil
}

// Open resolves (directory, file, hdu) to a live imagesource.Source.
// cubeview's own format decoders are out of scope (spec.md §1); this
// only serves sources registered via RegisterSynthetic.
func (b *FileBrowser) Open(directory, file, hdu string) (imagesource.Source, error) {
	if !b.Policy.IsDirectoryReadable(b.APIKey, directory) {
		return nil, fmt.Errorf("permission denied for directory %q", directory)
	}
	src, ok := b.synthetic[directory+"/"+file]
	if !ok {
		return nil, fmt.Errorf("no registered image source for %s/%s", directory, file)
	}
	return src, nil
}

// FileInfo answers a FILE_INFO_REQUEST with whatever extended metadata
// the registered source exposes (restored from
// original_source/FileInfoLoader.cc, reduced here to shape only since
// header-card extraction is out of scope).
func (b *FileBrowser) FileInfo(directory, file, hdu string) (session.FileInfo, error) {
	if !b.Policy.IsDirectoryReadable(b.APIKey, directory) {
		return session.FileInfo{}, fmt.Errorf("permission denied for directory %q", directory)
	}
	cacheKey := []byte("info:" + directory + "/" + file + "/" + hdu)
	if cached, err := b.cache.Get(cacheKey); err == nil {
		return decodeFileInfo(cached)
	}

	src, ok := b.synthetic[directory+"/"+file]
	if !ok {
		return session.FileInfo{Success: false, Message: "not found"}, nil
	}
	shape := src.Shape()
	info := session.FileInfo{
		Success: true, Width: shape.Width, Height: shape.Height,
		NumChan: shape.Depth, NumStokes: shape.Stokes,
	}
	if encoded, err := encodeFileInfo(info); err == nil {
		_ = b.cache.Set(cacheKey, snappy.Encode(nil, encoded), 0)
	}
	return info, nil
}
