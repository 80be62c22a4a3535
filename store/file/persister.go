package file

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

var (
	// ErrEmptyKey 会话键为空
	ErrEmptyKey = errors.New("file: session key cannot be empty")

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// Persister 每个键保存为目录下的一个 JSON 文件
type Persister struct {
	dir  string
	perm fs.FileMode
}

// NewPersister 创建 Persister，目录不存在时自动创建
func NewPersister(dir string) (*Persister, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Persister{dir: dir, perm: 0o600}, nil
}

// Path 返回键对应的文件路径
func (p *Persister) Path(key string) string {
	return filepath.Join(p.dir, unsafeChars.ReplaceAllString(key, "_")+".json")
}

// Load 读取会话，文件不存在时返回 nil, nil
func (p *Persister) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Save 先写临时文件再重命名，读者不会看到写了一半的内容
func (p *Persister) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(p.dir, ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(p.perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p.Path(key))
}

// Delete 删除会话文件
func (p *Persister) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	err := os.Remove(p.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
