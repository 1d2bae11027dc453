// Package loader provides the plugin-like feature loading system.
//
// Each HTTP module implements the Feature interface, which names the feature,
// reports whether it is enabled and registers its routes.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps the registry: Register adds features, LoadAll loads the
// enabled ones in registration order. The compare and datasets features are
// loaded this way by the start command.
package loader
