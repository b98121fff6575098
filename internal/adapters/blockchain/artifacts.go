package blockchain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/samber/lo"
)

// Artifact is a compiled contract: its ABI and creation bytecode
type Artifact struct {
	Name     string
	Path     string
	ABI      abi.ABI
	Bytecode []byte
}

// artifactFile covers both the hardhat layout (bytecode is a hex string)
// and the foundry layout (bytecode.object).
type artifactFile struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

// ArtifactStore finds artifacts by contract name under a build directory
type ArtifactStore struct {
	dir string

	once     sync.Once
	index    map[string]string
	indexErr error

	mu    sync.Mutex
	cache map[string]*Artifact
}

// NewArtifactStore creates an ArtifactStore over the configured artifacts directory
func NewArtifactStore(cfg *config.RuntimeConfig) *ArtifactStore {
	return NewArtifactStoreAt(cfg.ArtifactsDir)
}

// NewArtifactStoreAt creates an ArtifactStore over dir
func NewArtifactStoreAt(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir, cache: make(map[string]*Artifact)}
}

// Load returns the artifact named name (the JSON file's base name)
func (s *ArtifactStore) Load(name string) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if artifact, ok := s.cache[name]; ok {
		return artifact, nil
	}

	s.once.Do(s.buildIndex)
	if s.indexErr != nil {
		return nil, s.indexErr
	}

	path, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: artifact %s in %s", domain.ErrNotFound, name, s.dir)
	}

	artifact, err := parseArtifact(name, path)
	if err != nil {
		return nil, err
	}
	s.cache[name] = artifact
	return artifact, nil
}

// Names returns the indexed artifact names, sorted
func (s *ArtifactStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.once.Do(s.buildIndex)
	names := lo.Keys(s.index)
	sort.Strings(names)
	return names
}

func (s *ArtifactStore) buildIndex() {
	s.index = make(map[string]string)

	if _, err := os.Stat(s.dir); err != nil {
		s.indexErr = fmt.Errorf("artifacts directory %s: %w", s.dir, err)
		return
	}

	s.indexErr = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}

		base := d.Name()
		if !strings.HasSuffix(base, ".json") || strings.HasSuffix(base, ".dbg.json") {
			return nil
		}

		name := strings.TrimSuffix(base, ".json")
		if _, exists := s.index[name]; !exists {
			s.index[name] = path
		}
		return nil
	})
}

func parseArtifact(name, path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArtifact, path, err)
	}
	if len(file.ABI) == 0 {
		return nil, fmt.Errorf("%w: %s has no abi", domain.ErrInvalidArtifact, path)
	}

	parsed, err := abi.JSON(bytes.NewReader(file.ABI))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArtifact, path, err)
	}

	bytecode, err := decodeBytecode(file.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArtifact, path, err)
	}
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("%w: %s has no creation bytecode (abstract contract or interface?)", domain.ErrInvalidArtifact, path)
	}

	return &Artifact{
		Name:     name,
		Path:     path,
		ABI:      parsed,
		Bytecode: bytecode,
	}, nil
}

func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		var object struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &object); err != nil {
			return nil, fmt.Errorf("unrecognised bytecode field")
		}
		hex = object.Object
	}

	if hex == "" || hex == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(hex, "0x") {
		hex = "0x" + hex
	}
	if strings.Contains(hex, "__") {
		return nil, fmt.Errorf("bytecode has unlinked library placeholders")
	}
	return hexutil.Decode(hex)
}
