// Package badtl runs game dialogue through a chain of machine translations
// and restores the result to a form the game can load.
//
// Dialogue files carry structure the translator must not touch: identifiers
// such as msg_id_01, NUL delimiters and <p> markup. The dialogue processor
// protects that structure, splits the file into chunks small enough for a
// single request, re-wraps translated text to the text box width and undoes
// the protection afterwards.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/badtl"
//	    "github.com/ZaguanLabs/badtl/cache"
//	    "github.com/ZaguanLabs/badtl/processor"
//	    "github.com/ZaguanLabs/badtl/provider"
//	)
//
//	func main() {
//	    p := provider.NewGoogleProvider(provider.GoogleConfig{})
//
//	    t := badtl.NewTranslator(p,
//	        badtl.WithCache(cache.NewInMemoryCache(3600)),
//	        badtl.WithProcessor(processor.NewDialogueProcessor()),
//	    )
//
//	    result, err := t.ProcessDialogue(context.Background(), text)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Print(result.Content)
//	}
package badtl
