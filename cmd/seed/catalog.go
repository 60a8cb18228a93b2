package main

import (
	"fmt"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
)

type cutStyle struct {
	key   string
	label string
}

var (
	cutChunk = cutStyle{key: "chunk", label: "切块"}
	cutShred = cutStyle{key: "shred", label: "切丝"}
	cutDice  = cutStyle{key: "dice", label: "切丁"}
)

type prepContainer struct {
	code       string
	label      string
	conversion float64
}

var prepContainers = []prepContainer{
	{code: "box_2inch", label: "2寸盒", conversion: 0.5},
	{code: "box_4inch", label: "4寸盒", conversion: 1.0},
}

type protein struct {
	name     string
	nameEn   string
	casePack float64
}

type vegetable struct {
	name     string
	nameEn   string
	poolCode string
	cuts     []cutStyle
}

var proteins = []protein{
	{name: "白鸡", nameEn: "White Chicken", casePack: 10},
	{name: "黑鸡", nameEn: "Dark Chicken", casePack: 10},
	{name: "牛肉", nameEn: "Beef", casePack: 5},
	{name: "鸡翅", nameEn: "Chicken Wings", casePack: 8},
}

var vegetables = []vegetable{
	{name: "青椒", nameEn: "Green pepper", cuts: []cutStyle{cutChunk}},
	{name: "芹菜", nameEn: "Celery"},
	{name: "西兰花", nameEn: "Broccoli", cuts: []cutStyle{cutDice}},
	{name: "胡萝卜", nameEn: "Carrot", poolCode: "carrot", cuts: []cutStyle{cutChunk, cutShred, cutDice}},
	{name: "洋葱", nameEn: "Onion", poolCode: "onion", cuts: []cutStyle{cutChunk, cutShred}},
	{name: "青葱", nameEn: "Green onion", poolCode: "scallion", cuts: []cutStyle{cutShred}},
	{name: "蘑菇", nameEn: "Mushroom"},
	{name: "豆芽", nameEn: "Bean sprouts"},
}

// smoothie bases first, then fried and steamed items
var frozenItems = []string{
	"芒果", "玛格丽塔", "草莓", "覆盆子", "桃子",
	"芝麻球", "饺子", "馄饨", "大虾", "小虾", "春卷", "天妇罗炸虾", "玉米粒",
}

// defaultCatalog is the starter menu inserted by `seed catalog` into an empty database.
func defaultCatalog() []domain.Product {
	var (
		products []domain.Product
		order    int
	)
	next := func() *int {
		order++
		n := order
		return &n
	}

	for _, p := range proteins {
		products = append(products, domain.Product{
			Name:        p.name,
			NameEn:      p.nameEn,
			Category:    domain.CategoryProtein,
			StorageType: "chill",
			CasePack:    ptr(p.casePack),
			SortOrder:   next(),
			IsActive:    true,
			Variants: numbered([]domain.Variant{
				{Form: "RAW", Container: "case", DisplayName: p.name + "-原箱(生)", ConversionToBase: ptr(p.casePack)},
				{Form: "RAW", Container: "bag", DisplayName: p.name + "-袋装(生)", ConversionToBase: ptr(1.0)},
				{Form: "COOKED_CHILL", Container: "box_2inch", DisplayName: p.name + "-预炸(冷藏)-2寸盒", ConversionToBase: ptr(0.5)},
				{Form: "COOKED_CHILL", Container: "box_4inch", DisplayName: p.name + "-预炸(冷藏)-4寸盒", ConversionToBase: ptr(1.0)},
			}),
		})
	}

	for _, v := range vegetables {
		variants := []domain.Variant{
			{Form: "RAW", Container: "case", DisplayName: v.name + "-原箱", ConversionToBase: ptr(10.0)},
			{Form: "RAW", Container: "bag", DisplayName: v.name + "-袋装", ConversionToBase: ptr(1.0)},
		}
		for _, cut := range v.cuts {
			for _, c := range prepContainers {
				variants = append(variants, domain.Variant{
					Form:             "PREP_" + cut.key,
					Container:        c.code,
					DisplayName:      fmt.Sprintf("%s-%s-%s", v.name, cut.label, c.label),
					ConversionToBase: ptr(c.conversion),
				})
			}
		}

		product := domain.Product{
			Name:        v.name,
			NameEn:      v.nameEn,
			Category:    domain.CategoryVeg,
			StorageType: "room",
			MinOrderQty: ptr(1.0),
			SortOrder:   next(),
			IsActive:    true,
			Variants:    numbered(variants),
		}
		if v.poolCode != "" {
			product.PoolCode = ptr(v.poolCode)
		}
		products = append(products, product)
	}

	for _, name := range frozenItems {
		products = append(products, domain.Product{
			Name:        name,
			NameEn:      name,
			Category:    domain.CategoryFrozen,
			StorageType: "frozen",
			SortOrder:   next(),
			IsActive:    true,
			Variants: numbered([]domain.Variant{
				{Form: "FROZEN", Container: "case", DisplayName: name + "-原箱", ConversionToBase: ptr(10.0)},
				{Form: "FROZEN", Container: "bag", DisplayName: name + "-袋装", ConversionToBase: ptr(1.0)},
			}),
		})
	}

	return products
}

func numbered(variants []domain.Variant) []domain.Variant {
	for i := range variants {
		variants[i].SortOrder = ptr(i + 1)
	}
	return variants
}

func ptr[T any](v T) *T { return &v }
