package dto

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Optional 部分更新字段
//   - Set=false 请求中未出现该字段
//   - Set=true, Null=true 显式传入 null
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some 构造一个有值的字段
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null 构造一个显式为 null 的字段
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON 只有字段出现在请求体中时才会被调用
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Ptr 未设置或为 null 时返回 nil
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// optionalValue 让 binding 标签作用在 Value 上，未设置或 null 时跳过 omitempty 字段
func optionalValue[T any](field reflect.Value) interface{} {
	o, ok := field.Interface().(Optional[T])
	if !ok || !o.Set || o.Null {
		return nil
	}
	return o.Value
}

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterCustomTypeFunc(optionalValue[string], Optional[string]{})
	v.RegisterCustomTypeFunc(optionalValue[int64], Optional[int64]{})
	v.RegisterCustomTypeFunc(optionalValue[time.Time], Optional[time.Time]{})
	v.RegisterCustomTypeFunc(optionalValue[[]int64], Optional[[]int64]{})
}
