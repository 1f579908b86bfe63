package bulkbench

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// 合成数据词表
var (
	firstNames = []string{
		"alice", "bob", "carol", "david", "erin", "frank", "grace", "henry",
		"iris", "jack", "karen", "leo", "mona", "nina", "oscar", "paula",
		"quinn", "ralph", "sara", "tom", "ursula", "victor", "wendy", "yuri",
	}
	lastNames = []string{
		"anderson", "brown", "chen", "davis", "evans", "fischer", "garcia",
		"huang", "ivanov", "johnson", "kim", "lopez", "miller", "nguyen",
		"olsen", "peterson", "qian", "rossi", "smith", "tanaka", "wagner",
		"yamamoto", "zhang",
	}
	mailDomains = []string{
		"example.com", "example.org", "mail.test", "post.test", "inbox.test",
	}
	productAdjectives = []string{
		"Small", "Ergonomic", "Rustic", "Intelligent", "Gorgeous", "Incredible",
		"Fantastic", "Practical", "Sleek", "Awesome", "Enormous", "Mediocre",
		"Synergistic", "Heavy Duty", "Lightweight", "Durable",
	}
	productMaterials = []string{
		"Steel", "Wooden", "Concrete", "Plastic", "Cotton", "Granite",
		"Rubber", "Leather", "Silk", "Wool", "Linen", "Marble", "Iron",
		"Bronze", "Copper", "Aluminum", "Paper", "Glass",
	}
	productNouns = []string{
		"Chair", "Car", "Computer", "Gloves", "Pants", "Shirt", "Table",
		"Shoes", "Hat", "Plate", "Knife", "Bottle", "Coat", "Lamp",
		"Keyboard", "Bag", "Bench", "Clock", "Watch", "Wallet",
	}
)

// Generator 合成记录生成器
// 产出满足表结构约束的伪随机字段值，不保证用户名/邮箱唯一，生成本身不会失败
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator 创建以当前时间为种子的生成器
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed 创建固定种子的生成器（测试用）
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Intn(n)
}

func (g *Generator) pick(words []string) string {
	return words[g.intn(len(words))]
}

// Usernames 生成 n 个用户名
func (g *Generator) Usernames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s.%s%d", g.pick(firstNames), g.pick(lastNames), g.intn(10000))
	}
	return out
}

// Emails 生成 n 个邮箱地址
func (g *Generator) Emails(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s.%s%d@%s", g.pick(firstNames), g.pick(lastNames), g.intn(10000), g.pick(mailDomains))
	}
	return out
}

// ProductNames 生成 n 个商品名
func (g *Generator) ProductNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s %s %s", g.pick(productAdjectives), g.pick(productMaterials), g.pick(productNouns))
	}
	return out
}

// Prices 生成 n 个两位小数的非负价格字符串
// 以“分”为单位生成整数再格式化，避免浮点舍入产生畸形价格
func (g *Generator) Prices(n int) []string {
	out := make([]string, n)
	for i := range out {
		cents := g.intn(100_000) // 0.00 .. 999.99
		out[i] = fmt.Sprintf("%d.%02d", cents/100, cents%100)
	}
	return out
}

// Price 生成单个价格字符串
func (g *Generator) Price() string {
	return g.Prices(1)[0]
}

// OrderDates 生成 n 个落在最近 365 天内的下单时间
func (g *Generator) OrderDates(n int) []time.Time {
	out := make([]time.Time, n)
	base := g.now()
	for i := range out {
		out[i] = base.AddDate(0, 0, -g.intn(365))
	}
	return out
}

// Quantity 生成 [min, max] 范围内的数量
func (g *Generator) Quantity(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.intn(max-min+1)
}

// Quantities 生成 n 个 [min, max] 范围内的数量
func (g *Generator) Quantities(n, min, max int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(g.Quantity(min, max))
	}
	return out
}

// IDsInRange 生成 n 个落在 [1, max] 的标识值
// 数据集重建后序列从 1 连续分配，按范围取样即可保证引用有效
func (g *Generator) IDsInRange(n int, max int64) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = 1 + int64(g.intn(int(max)))
	}
	return out
}
