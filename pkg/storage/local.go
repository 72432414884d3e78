package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var ErrFileNotFound = errors.New("file not found")

// 文件名中允许保留的字符，其余一律替换为下划线
var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// LocalStorage 本地文件存储实现
// 文件平铺保存在单一目录下，文件名即访问标识
type LocalStorage struct {
	basePath string // 基础存储路径
}

// LocalConfig 本地存储配置
type LocalConfig struct {
	Path string // 本地存储路径
}

// NewLocalStorage 创建本地存储实例
func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %v", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %v", err)
	}

	return &LocalStorage{
		basePath: absPath,
	}, nil
}

// BasePath 返回存储根目录
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// SanitizeFilename 清洗文件名，去掉路径成分和不安全字符
func SanitizeFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	return name
}

// Save 保存文件到本地存储，同名文件会被覆盖
func (s *LocalStorage) Save(reader io.Reader, filename string) (FileInfo, error) {
	name := SanitizeFilename(filename)
	filePath := filepath.Join(s.basePath, name)

	file, err := os.Create(filePath)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to create file: %v", err)
	}
	defer file.Close()

	size, err := io.Copy(file, reader)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to write file: %v", err)
	}

	return FileInfo{
		Name:     name,
		Original: filename,
		Size:     size,
		Path:     filePath,
	}, nil
}

// Get 获取文件内容
func (s *LocalStorage) Get(name string) (io.ReadCloser, error) {
	filePath, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %v", err)
	}

	return file, nil
}

// Delete 删除文件
func (s *LocalStorage) Delete(name string) error {
	filePath, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

// List 列出所有文件
func (s *LocalStorage) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %v", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:     entry.Name(),
			Original: entry.Name(),
			Size:     info.Size(),
			Path:     filepath.Join(s.basePath, entry.Name()),
		})
	}
	return files, nil
}

// Exists 检查文件是否存在
func (s *LocalStorage) Exists(name string) (bool, error) {
	filePath, err := s.resolve(name)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// resolve 将文件名解析为存储目录内的路径，拒绝目录穿越
func (s *LocalStorage) resolve(name string) (string, error) {
	clean := SanitizeFilename(name)
	if clean != name {
		return "", fmt.Errorf("invalid file name: %s", name)
	}
	return filepath.Join(s.basePath, clean), nil
}
