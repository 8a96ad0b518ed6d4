package system

import (
	"image"
	"sync"
)

// FramePool переиспользует кадры RGBA одного размера между воркерами
// рендера и писателем в кодировщик, снижая нагрузку на GC.
// Все кадры ролика одинаковые, поэтому пул привязан к одному прямоугольнику.
type FramePool struct {
	rect image.Rectangle
	pool sync.Pool
}

func NewFramePool(width, height int) *FramePool {
	rect := image.Rect(0, 0, width, height)
	return &FramePool{
		rect: rect,
		pool: sync.Pool{
			New: func() interface{} {
				return image.NewRGBA(rect)
			},
		},
	}
}

// Get возвращает кадр из пула или создает новый.
func (p *FramePool) Get() *image.RGBA {
	return p.pool.Get().(*image.RGBA)
}

// Put возвращает кадр в пул. Чужие по размеру кадры отбрасываются.
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil || img.Rect != p.rect {
		return
	}
	p.pool.Put(img)
}
