package physics

import (
	"fmt"
	"sort"
	"strings"
)

// Layer classifies a surface for overlap and raycast filtering.
type Layer uint8

// LayerMask is a bit set of layers.
type LayerMask uint32

const (
	LayerDefault       Layer = 0
	LayerIgnoreRaycast Layer = 2
	LayerWater         Layer = 4
	LayerGround        Layer = 6
)

const AllLayers = ^LayerMask(0)

// DefaultRaycastLayers is what an unfiltered raycast sees.
const DefaultRaycastLayers = AllLayers &^ (LayerMask(1) << LayerIgnoreRaycast)

var layerNames = map[string]Layer{
	"default":        LayerDefault,
	"ignore_raycast": LayerIgnoreRaycast,
	"water":          LayerWater,
	"ground":         LayerGround,
}

func (l Layer) Mask() LayerMask {
	return LayerMask(1) << l
}

func (l Layer) String() string {
	for name, layer := range layerNames {
		if layer == l {
			return name
		}
	}
	return fmt.Sprintf("layer(%d)", uint8(l))
}

func (m LayerMask) Contains(l Layer) bool {
	return m&l.Mask() != 0
}

func LayerByName(name string) (Layer, error) {
	layer, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (known: %s)", ErrUnknownLayer, name, strings.Join(LayerNames(), ", "))
	}
	return layer, nil
}

func MaskOf(names ...string) (LayerMask, error) {
	var mask LayerMask
	for _, name := range names {
		layer, err := LayerByName(name)
		if err != nil {
			return 0, err
		}
		mask |= layer.Mask()
	}
	return mask, nil
}

func LayerNames() []string {
	names := make([]string, 0, len(layerNames))
	for name := range layerNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
