// Package processor provides content processing implementations.
package processor

import "github.com/ZaguanLabs/badtl"

// ContentProcessor is an alias to the main package interface.
type ContentProcessor = badtl.ContentProcessor

// TextNode is an alias to the main package type.
type TextNode = badtl.TextNode
