package allocator

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/sgr-gralloc/sgralloc/config"
	"github.com/sgr-gralloc/sgralloc/formatmgr"
	"github.com/sgr-gralloc/sgralloc/internal/utils"
	"github.com/sgr-gralloc/sgralloc/memory"
	"github.com/vkngwrapper/core/v2/common"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific allocator behaviors to activate or deactivate
type CreateFlags int32

var allocatorCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	allocatorCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return allocatorCreateFlagsMapping.FlagsToString(f)
}

const (
	// AllocatorCreateExternallySynchronized ensures that this allocator and all buffers created from it
	// will not be synchronized internally. The consumer must guarantee they are used from only one
	// thread at a time or are synchronized by some other mechanism. Buffer ids are still handed out
	// atomically.
	AllocatorCreateExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	AllocatorCreateExternallySynchronized.Register("AllocatorCreateExternallySynchronized")
}

// CreateOptions contains optional settings when creating an allocator
type CreateOptions struct {
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags

	// Config steers layout decisions. When nil, config.Default() is used.
	Config *config.Config

	// MemoryCallbackOptions is an optional set of callbacks that will be executed whenever a region is
	// allocated from or returned to the memory manager, metadata regions included
	MemoryCallbackOptions *MemoryCallbackOptions

	// IDPrefix fills the upper 32 bits of every buffer id this allocator hands out. When 0, the
	// process id is used so that ids from different allocator processes do not collide.
	IDPrefix uint32
}

// New creates a new Allocator
//
// manager - The memory manager every buffer region is allocated from
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, manager memory.Manager, options CreateOptions) (*Allocator, error) {
	if manager == nil {
		return nil, errors.New("attempted to create an allocator with a nil memory manager")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cfg := config.Default()
	if options.Config != nil {
		cfg = *options.Config
	}

	formats, err := formatmgr.New(logger, cfg)
	if err != nil {
		return nil, err
	}

	idPrefix := options.IDPrefix
	if idPrefix == 0 {
		idPrefix = uint32(os.Getpid())
	}

	useMutex := options.Flags&AllocatorCreateExternallySynchronized == 0
	allocator := &Allocator{
		useMutex:    useMutex,
		logger:      logger,
		createFlags: options.Flags,
		manager:     manager,
		formats:     formats,
		idPrefix:    uint64(idPrefix) << 32,

		buffersMutex: utils.OptionalRWMutex{UseMutex: useMutex},
		buffers:      swiss.NewMap[uint64, *BufferHandle](42),
	}
	allocator.callbacks = memoryCallbacks{
		Callbacks: options.MemoryCallbackOptions,
		Allocator: allocator,
	}

	return allocator, nil
}
