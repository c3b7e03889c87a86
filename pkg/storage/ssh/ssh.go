package ssh

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/williamokano/oss_uploader/pkg/storage"
)

const Provider = "sftp"

// Backend writes objects over SFTP. The endpoint is host[:port], accessKeyId
// the user, accessKeySecret a password or a PEM private key, and bucket the
// remote base directory.
type Backend struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	fs         remoteFS
	host       string
	user       string
	remotePath string
}

func init() {
	storage.RegisterBackend(Provider, func(ctx context.Context, cfg storage.Config) (storage.Client, error) {
		return New(cfg)
	})
}

// New creates a new SSH/SFTP backend
func New(cfg storage.Config) (*Backend, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint (host[:port]) is required for sftp", storage.ErrInvalidConfig)
	}

	clientConfig, err := clientConfig(cfg)
	if err != nil {
		return nil, err
	}

	addr := cfg.Endpoint
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}

	sshClient, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, storage.WrapError(Provider, "connect", fmt.Errorf("%w: %v", storage.ErrConnFailed, err))
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, storage.WrapError(Provider, "sftp init", err)
	}

	remotePath := cfg.Bucket
	if err := sftpClient.MkdirAll(remotePath); err != nil {
		sftpClient.Close()
		sshClient.Close()
		return nil, storage.WrapError(Provider, "mkdir", err)
	}

	return &Backend{
		sshClient:  sshClient,
		sftpClient: sftpClient,
		fs:         sftpFS{sftpClient},
		host:       addr,
		user:       cfg.AccessKeyID,
		remotePath: remotePath,
	}, nil
}

// remoteFS is the part of the SFTP client Put needs
type remoteFS interface {
	MkdirAll(dir string) error
	Create(path string) (io.WriteCloser, error)
}

type sftpFS struct {
	client *sftp.Client
}

func (f sftpFS) MkdirAll(dir string) error { return f.client.MkdirAll(dir) }

func (f sftpFS) Create(path string) (io.WriteCloser, error) { return f.client.Create(path) }

func clientConfig(cfg storage.Config) (*ssh.ClientConfig, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	clientConfig := &ssh.ClientConfig{
		User:            cfg.AccessKeyID,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: verify against a known_hosts file
		Timeout:         timeout,
	}

	if strings.Contains(cfg.AccessKeySecret, "PRIVATE KEY") {
		signer, err := ssh.ParsePrivateKey([]byte(cfg.AccessKeySecret))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse SSH key: %v", storage.ErrInvalidConfig, err)
		}
		clientConfig.Auth = append(clientConfig.Auth, ssh.PublicKeys(signer))
	} else {
		clientConfig.Auth = append(clientConfig.Auth, ssh.Password(cfg.AccessKeySecret))
	}

	return clientConfig, nil
}

func (b *Backend) Name() string { return Provider }

// Put writes body to remotePath/key
func (b *Backend) Put(ctx context.Context, key string, body []byte) (*storage.PutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	remotePath := path.Join(b.remotePath, key)

	if err := b.fs.MkdirAll(path.Dir(remotePath)); err != nil {
		return nil, storage.WrapError(Provider, "mkdir", storage.Classify(err, 0))
	}

	remoteFile, err := b.fs.Create(remotePath)
	if err != nil {
		return nil, storage.WrapError(Provider, "create", storage.Classify(err, 0))
	}

	if _, err := remoteFile.Write(body); err != nil {
		remoteFile.Close()
		return nil, storage.WrapError(Provider, "upload", storage.Classify(err, 0))
	}

	// The server may only report quota or flush failures here
	if err := remoteFile.Close(); err != nil {
		return nil, storage.WrapError(Provider, "close", storage.Classify(err, 0))
	}

	fileURL := url.URL{Scheme: "sftp", User: url.User(b.user), Host: b.host, Path: remotePath}

	return &storage.PutResult{
		URL:      fileURL.String(),
		Response: &storage.Response{Status: storage.StatusOK},
	}, nil
}

// Close releases resources
func (b *Backend) Close() error {
	if b.sftpClient != nil {
		b.sftpClient.Close()
	}
	if b.sshClient != nil {
		b.sshClient.Close()
	}
	return nil
}
