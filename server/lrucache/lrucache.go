/*
Copyright 2014-2017 Bo Blanton

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// a little size-capped LRU cache, the capacity is in "size" units of the values
package lrucache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// Values that go into LRUCache need to satisfy this interface.
type Value interface {
	Size() int
}

type Item struct {
	Key   string
	Value Value
}

type entry struct {
	key           string
	value         Value
	size          int
	time_accessed time.Time
}

type LRUCache struct {
	mu sync.Mutex

	// list & table of *entry objects
	list  *list.List
	table map[string]*list.Element

	// Our current size, in bytes. Obviously a gross simplification and low-grade
	// approximation.
	size uint64

	// How many bytes we are limiting the cache to.
	capacity uint64

	hits   uint64
	misses uint64
}

func NewLRUCache(capacity uint64) *LRUCache {
	return &LRUCache{
		list:     list.New(),
		table:    make(map[string]*list.Element),
		capacity: capacity,
	}
}

func (lru *LRUCache) Get(key string) (v Value, ok bool) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	element := lru.table[key]
	if element == nil {
		lru.misses++
		return nil, false
	}
	lru.hits++
	lru.moveToFront(element)
	return element.Value.(*entry).value, true
}

// Set adds or replaces a value, returning the last key it pushed out (if any)
func (lru *LRUCache) Set(key string, value Value) (rmkey string, rmelement Value) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	if element := lru.table[key]; element != nil {
		lru.updateInplace(element, value)
	} else {
		lru.addNew(key, value)
	}
	return lru.checkCapacity()
}

func (lru *LRUCache) Delete(key string) bool {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	element := lru.table[key]
	if element == nil {
		return false
	}
	lru.removeElement(element)
	return true
}

func (lru *LRUCache) Clear() {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	lru.list.Init()
	lru.table = make(map[string]*list.Element)
	lru.size = 0
}

func (lru *LRUCache) SetCapacity(capacity uint64) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	lru.capacity = capacity
	lru.checkCapacity()
}

func (lru *LRUCache) GetCapacity() uint64 {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	return lru.capacity
}

func (lru *LRUCache) Stats() (length, size, capacity, hits, misses uint64) {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	return uint64(lru.list.Len()), lru.size, lru.capacity, lru.hits, lru.misses
}

func (lru *LRUCache) StatsJSON() string {
	l, s, c, h, m := lru.Stats()
	return fmt.Sprintf("{\"Length\": %v, \"Size\": %v, \"Capacity\": %v, \"Hits\": %v, \"Misses\": %v}", l, s, c, h, m)
}

// Keys gives the keys, most recently used first
func (lru *LRUCache) Keys() []string {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	keys := make([]string, 0, lru.list.Len())
	for e := lru.list.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*entry).key)
	}
	return keys
}

func (lru *LRUCache) updateInplace(element *list.Element, value Value) {
	en := element.Value.(*entry)
	valueSize := value.Size()
	lru.size = lru.size + uint64(valueSize) - uint64(en.size)
	en.value = value
	en.size = valueSize
	lru.moveToFront(element)
}

func (lru *LRUCache) moveToFront(element *list.Element) {
	lru.list.MoveToFront(element)
	element.Value.(*entry).time_accessed = time.Now()
}

func (lru *LRUCache) addNew(key string, value Value) {
	newEntry := &entry{key: key, value: value, size: value.Size(), time_accessed: time.Now()}
	element := lru.list.PushFront(newEntry)
	lru.table[key] = element
	lru.size += uint64(newEntry.size)
}

func (lru *LRUCache) removeElement(element *list.Element) {
	en := lru.list.Remove(element).(*entry)
	delete(lru.table, en.key)
	lru.size -= uint64(en.size)
}

func (lru *LRUCache) checkCapacity() (rmkey string, rmelement Value) {
	// Partially duplicated from Delete
	for lru.size > lru.capacity {
		delElem := lru.list.Back()
		delValue := delElem.Value.(*entry)
		lru.removeElement(delElem)
		rmkey, rmelement = delValue.key, delValue.value
	}
	return rmkey, rmelement
}
