package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/expki/go-hmdb/config"
	"github.com/expki/go-hmdb/logger"
	"github.com/klauspost/compress/zip"
	"github.com/schollz/progressbar/v3"
)

// ErrMemberMissing is returned when the archive does not yield the expected XML member.
var ErrMemberMissing = errors.New("archive member missing")

// Source acquires the HMDB export and caches it under the data directory.
type Source struct {
	urls    []string
	archive string
	member  string
	dataDir string
	client  *http.Client

	// Progress receives download progress. Nil disables it.
	Progress io.Writer
}

func New(cfg config.Source, dataDir string, client *http.Client) *Source {
	if client == nil {
		client = NewClient(config.HTTP_TIMEOUT_DOWNLOAD)
	}
	urls := []string(cfg.Url)
	if len(urls) == 0 {
		urls = []string{config.DATA_URL}
	}
	archive := cfg.Archive
	if archive == "" {
		archive = config.DATA_ARCHIVE_NAME
	}
	member := cfg.Member
	if member == "" {
		member = config.DATA_MEMBER_NAME
	}
	return &Source{
		urls:    urls,
		archive: archive,
		member:  member,
		dataDir: dataDir,
		client:  client,
	}
}

// ArchivePath is where the downloaded archive is cached.
func (s *Source) ArchivePath() string {
	return filepath.Join(s.dataDir, s.archive)
}

// MemberPath is where the extracted XML document is cached.
func (s *Source) MemberPath() string {
	return filepath.Join(s.dataDir, path.Base(s.member))
}

// EnsureSource returns the path of the extracted XML document. Cached files
// are reused unless forceRefresh is set, in which case the archive is
// downloaded and extracted again.
func (s *Source) EnsureSource(ctx context.Context, forceRefresh bool) (string, error) {
	memberPath := s.MemberPath()
	if !forceRefresh && exists(memberPath) {
		logger.Sugar().Debugf("using cached source %s", memberPath)
		return memberPath, nil
	}
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", errors.Join(errors.New("failed to create data directory"), err)
	}

	archivePath := s.ArchivePath()
	if forceRefresh || !exists(archivePath) {
		if err := s.download(ctx, archivePath); err != nil {
			return "", err
		}
	} else {
		logger.Sugar().Debugf("using cached archive %s", archivePath)
	}

	if err := extract(archivePath, s.member, memberPath); err != nil {
		return "", err
	}
	if !exists(memberPath) {
		return "", fmt.Errorf("%w: %s not found after extraction", ErrMemberMissing, memberPath)
	}
	return memberPath, nil
}

// download tries every configured url in order and keeps the first success.
func (s *Source) download(ctx context.Context, target string) error {
	var errs []error
	for _, url := range s.urls {
		err := s.fetch(ctx, url, target)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		logger.Sugar().Warnf("download %s failed: %v", url, err)
		errs = append(errs, err)
	}
	return errors.Join(append([]error{errors.New("failed to download source archive")}, errs...)...)
}

func (s *Source) fetch(ctx context.Context, url, target string) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Join(errors.New("failed to create request"), err)
	}
	logger.Sugar().Infof("downloading %s", url)
	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return errors.Join(errors.New("failed to send request"), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("response returned bad status code %s: %d", url, resp.StatusCode)
	}

	// write beside the target so a broken transfer never looks cached
	tmp := target + ".part"
	file, err := os.Create(tmp)
	if err != nil {
		return errors.Join(errors.New("failed to create archive file"), err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	var bar *progressbar.ProgressBar
	if s.Progress != nil {
		bar = progressbar.NewOptions64(
			resp.ContentLength,
			progressbar.OptionSetWriter(s.Progress),
			progressbar.OptionSetDescription("Downloading "+s.archive),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
		)
	} else {
		bar = progressbar.DefaultBytesSilent(resp.ContentLength)
	}
	_, err = io.Copy(io.MultiWriter(file, bar), resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Join(errors.New("failed to write archive"), err)
	}
	bar.Finish()
	if err = os.Rename(tmp, target); err != nil {
		return errors.Join(errors.New("failed to store archive"), err)
	}
	return nil
}

// extract copies the named member out of the zip archive to target.
func extract(archivePath, member, target string) (err error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Join(errors.New("failed to open archive"), err)
	}
	defer reader.Close()

	var entry *zip.File
	for _, f := range reader.File {
		if f.Name == member || path.Base(f.Name) == member {
			entry = f
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("%w: %s does not contain %s", ErrMemberMissing, archivePath, member)
	}

	in, err := entry.Open()
	if err != nil {
		return errors.Join(errors.New("failed to open archive member"), err)
	}
	defer in.Close()

	tmp := target + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return errors.Join(errors.New("failed to create extracted file"), err)
	}
	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return errors.Join(errors.New("failed to extract archive member"), err)
	}
	logger.Sugar().Infof("extracted %s to %s", entry.Name, target)
	return os.Rename(tmp, target)
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
