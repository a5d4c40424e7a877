package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/levkonnect-backend/internal/logger"
)

// SafeGo запускает фоновую горутину с перехватом паники.
// Используется для побочных эффектов, которые не должны ронять процесс.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithFields(map[string]interface{}{
					"goroutine": name,
					"panic":     r,
					"stack":     string(debug.Stack()),
				}).Error("паника в фоновой горутине")
			}
		}()
		fn()
	}()
}

// SafeGoWithContext — то же самое для горутин, завершающихся по контексту.
func SafeGoWithContext(ctx context.Context, name string, fn func(ctx context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithFields(map[string]interface{}{
					"goroutine": name,
					"panic":     r,
					"stack":     string(debug.Stack()),
				}).Error("паника в фоновой горутине")
			}
		}()
		fn(ctx)
	}()
}
