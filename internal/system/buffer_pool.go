package system

import (
	"bytes"
	"sync"
)

// maxPooledBuffer ограничивает размер буферов, которые возвращаются в пул
const maxPooledBuffer = 1 << 20

// BufferPool предоставляет механизмы повторного использования bytes.Buffer
// для снижения нагрузки на Garbage Collector (GC) при экспорте субтитров.
type BufferPool struct {
	pool sync.Pool
}

var globalPool = NewBufferPool()

// NewBufferPool создает пустой пул буферов
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// GetBuffer возвращает очищенный буфер из глобального пула.
func GetBuffer() *bytes.Buffer {
	return globalPool.Get()
}

// PutBuffer возвращает буфер в глобальный пул для повторного использования.
func PutBuffer(buf *bytes.Buffer) {
	globalPool.Put(buf)
}

func (p *BufferPool) Get() *bytes.Buffer {
	buf := p.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	// Слишком большие буферы не держим в памяти
	if buf.Cap() > maxPooledBuffer {
		return
	}
	p.pool.Put(buf)
}
