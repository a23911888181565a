package cpv

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// LoadFunc возвращает записи справочника.
type LoadFunc func() ([]Entry, error)

// Cache лениво строит словарь при первом обращении и хранит его
// до явного сброса.
type Cache struct {
	load   LoadFunc
	logger zerolog.Logger
	dict   atomic.Pointer[Dictionary]
}

// NewCache создаёт кэш словаря с указанным источником записей.
func NewCache(load LoadFunc, logger zerolog.Logger) *Cache {
	return &Cache{
		load:   load,
		logger: logger.With().Str("component", "cpv").Logger(),
	}
}

// Get возвращает словарь, строя его при первом вызове. Конкурентные
// первые вызовы могут построить словарь дважды, но все читатели
// увидят одну и ту же опубликованную таблицу. Если источник вернул
// ошибку, возвращается пустой словарь, который не публикуется, и
// следующий вызов повторит загрузку.
func (c *Cache) Get() *Dictionary {
	d, err := c.get()
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to load cpv entries")
	}
	return d
}

// Prime загружает словарь заранее и возвращает ошибку источника.
func (c *Cache) Prime() error {
	_, err := c.get()
	return err
}

func (c *Cache) get() (*Dictionary, error) {
	for {
		if d := c.dict.Load(); d != nil {
			return d, nil
		}

		entries, err := c.load()
		if err != nil {
			return Build(nil), err
		}

		d := Build(entries)
		if c.dict.CompareAndSwap(nil, d) {
			c.logger.Info().Int("codes", d.Len()).Msg("cpv dictionary loaded")
			return d, nil
		}
	}
}

// Reset сбрасывает словарь; следующий Get построит его заново.
func (c *Cache) Reset() {
	c.dict.Store(nil)
}
