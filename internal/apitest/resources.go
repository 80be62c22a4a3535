package apitest

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Item 内存中的资源记录
type Item = map[string]any

// collection 某类资源的内存存储，按自增 id 排序
type collection struct {
	mu    sync.Mutex
	seq   int
	items map[int]Item
}

func newCollection() *collection {
	return &collection{items: make(map[int]Item)}
}

func (c *collection) insert(item Item) Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	out := clone(item)
	out["id"] = c.seq
	c.items[c.seq] = out
	return clone(out)
}

func (c *collection) get(id string) (Item, bool) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[n]
	if !ok {
		return nil, false
	}
	return clone(item), true
}

func (c *collection) update(id string, patch Item) (Item, bool) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[n]
	if !ok {
		return nil, false
	}
	for k, v := range patch {
		if k != "id" {
			item[k] = v
		}
	}
	return clone(item), true
}

func (c *collection) remove(id string) bool {
	n, err := strconv.Atoi(id)
	if err != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[n]; !ok {
		return false
	}
	delete(c.items, n)
	return true
}

// list 返回满足 match 的记录，按 id 升序
func (c *collection) list(match func(Item) bool) []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]int, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		item := c.items[id]
		if match == nil || match(item) {
			out = append(out, clone(item))
		}
	}
	return out
}

func clone(item Item) Item {
	out := make(Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

// Collection 返回某类资源的存储，不存在时创建
func (s *Server) collection(name string) *collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = newCollection()
		s.collections[name] = c
	}
	return c
}

// Insert 直接写入一条记录，返回带 id 的副本
func (s *Server) Insert(name string, item Item) Item {
	return s.collection(name).insert(item)
}

// Count 返回某类资源的记录数
func (s *Server) Count(name string) int {
	return len(s.collection(name).list(nil))
}

func (s *Server) seed() {
	s.accounts[AdminEmail] = &account{id: 1, email: AdminEmail, name: "Admin", password: AdminPassword, rol: 1, sede: 1}

	now := time.Now().UTC().Format(time.RFC3339)
	s.Insert("users", Item{"name": "Admin", "lastName": "Divina", "image": nil, "createdAt": now, "updatedAt": now, "deletedAt": nil})
	s.Insert("sedes", Item{"name": "Sede Principal"})
	for _, name := range []string{"gerente", "administrador", "especialista"} {
		s.Insert("roles", Item{"name": name})
	}
	for _, name := range []string{"activo", "inactivo"} {
		s.Insert("statuses", Item{"name": name})
	}
	for _, name := range []string{"efectivo", "transferencia", "punto de venta"} {
		s.Insert("payment-methods", Item{"name": name})
	}
}

// mount 为资源注册列表、详情、创建、更新与删除路由
func (s *Server) mount(name, prefix string) {
	s.engine.GET(prefix, s.list(name))
	s.engine.POST(prefix, s.create(name))
	s.engine.GET(prefix+"/:id", s.get(name, "id"))
	s.engine.PATCH(prefix+"/:id", s.update(name, "id"))
	s.engine.DELETE(prefix+"/:id", s.remove(name))
}

// list 默认分页返回，paginated=false 时返回数组，sedes 总是返回数组
func (s *Server) list(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := s.collection(name).list(searchFilter(c.Query("search")))
		if name == "sedes" || c.Query("paginated") == "false" {
			c.JSON(http.StatusOK, items)
			return
		}
		c.JSON(http.StatusOK, paginate(c, items))
	}
}

func (s *Server) listChildren(name, parentField string) gin.HandlerFunc {
	return func(c *gin.Context) {
		parent := c.Param("id")
		items := s.collection(name).list(func(item Item) bool {
			return fmt.Sprint(item[parentField]) == parent
		})
		c.JSON(http.StatusOK, paginate(c, items))
	}
}

func (s *Server) get(name, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, ok := s.collection(name).get(c.Param(param))
		if !ok {
			errorBody(c, http.StatusNotFound, "Recurso no encontrado")
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func (s *Server) create(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := readBody(c)
		if !ok {
			return
		}
		c.JSON(http.StatusCreated, s.collection(name).insert(body))
	}
}

// createChild 创建挂在父资源下的记录，父 id 取自路由参数
func (s *Server) createChild(name, parentField string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := readBody(c)
		if !ok {
			return
		}
		parent := c.Param("id")
		if parent == "" {
			// 支付挂在治疗下，客户 id 取自治疗记录
			parent = c.Param("child")
			treatment, found := s.collection("treatments").get(parent)
			if !found {
				errorBody(c, http.StatusNotFound, "Tratamiento no encontrado")
				return
			}
			body["customerId"] = treatment["customerId"]
		}
		body[parentField] = parent
		c.JSON(http.StatusCreated, s.collection(name).insert(body))
	}
}

func (s *Server) update(name, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := readBody(c)
		if !ok {
			return
		}
		item, found := s.collection(name).update(c.Param(param), body)
		if !found {
			errorBody(c, http.StatusNotFound, "Recurso no encontrado")
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// updateFromBody 更新 id 位于请求体中的记录
func (s *Server) updateFromBody(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := readBody(c)
		if !ok {
			return
		}
		item, found := s.collection(name).update(fmt.Sprint(body["id"]), body)
		if !found {
			errorBody(c, http.StatusNotFound, "Recurso no encontrado")
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func (s *Server) remove(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.collection(name).remove(c.Param("id")) {
			errorBody(c, http.StatusNotFound, "Recurso no encontrado")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}

func (s *Server) catalog(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.collection(name).list(nil))
	}
}

// metadata 统计接口，所有字段都返回记录总数
func (s *Server) metadata(name string, fields ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		total := s.Count(name)
		out := gin.H{}
		for _, f := range fields {
			out[f] = total
		}
		c.JSON(http.StatusOK, out)
	}
}

// readBody 读取 JSON 或 multipart 请求体，multipart 的文件字段保存为文件名
func readBody(c *gin.Context) (Item, bool) {
	body := Item{}
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			errorBody(c, http.StatusBadRequest, err.Error())
			return nil, false
		}
		for k, v := range form.Value {
			if len(v) > 0 {
				body[k] = v[0]
			}
		}
		for k, files := range form.File {
			if len(files) > 0 {
				body[k] = "uploads/" + files[0].Filename
			}
		}
		return body, true
	}
	if c.Request.ContentLength == 0 {
		return body, true
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		errorBody(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return body, true
}

func searchFilter(search string) func(Item) bool {
	if search == "" {
		return nil
	}
	search = strings.ToLower(search)
	return func(item Item) bool {
		name, _ := item["name"].(string)
		return strings.Contains(strings.ToLower(name), search)
	}
}

// paginate 按 page 与 limit 切分并生成分页链接
func paginate(c *gin.Context, items []Item) gin.H {
	page := max(queryInt(c, "page", 1), 1)
	limit := max(queryInt(c, "limit", 10), 1)
	total := len(items)
	pages := max(int(math.Ceil(float64(total)/float64(limit))), 1)

	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	link := func(p int) string {
		if p < 1 || p > pages {
			return ""
		}
		q := url.Values{}
		q.Set("page", strconv.Itoa(p))
		q.Set("limit", strconv.Itoa(limit))
		return c.Request.URL.Path + "?" + q.Encode()
	}

	return gin.H{
		"data": items[start:end],
		"meta": gin.H{
			"page":            page,
			"limit":           limit,
			"totalItems":      total,
			"totalPages":      pages,
			"firstPageUrl":    link(1),
			"previousPageUrl": link(page - 1),
			"nextPageUrl":     link(page + 1),
			"lastPageUrl":     link(pages),
		},
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}
