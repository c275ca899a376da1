// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deploy

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/lcad/sitegen/pkg/types"
)

// Remote is the upload target of a mirrored deploy. Paths are
// slash-separated and relative to the configured remote root.
type Remote interface {
	// MkdirAll ensures dir exists, creating parents as needed.
	MkdirAll(dir string) error

	// Upload replaces the remote file at rel with the local file's content.
	Upload(local, rel string) error

	// List returns the relative paths of every regular file under the
	// remote root.
	List() ([]string, error)

	// Remove deletes the remote file at rel.
	Remove(rel string) error

	Close() error
}

// dialRemote is swapped out in tests so dry runs can prove no dial happens.
var dialRemote = dialSFTP

// dialSFTP opens an SFTP session rooted at cfg.RemotePath. Authentication
// uses cfg.KeyFile when set, otherwise the supplied password.
func dialSFTP(cfg types.DeployConfig, password string) (Remote, error) {
	auth, err := authMethods(cfg.KeyFile, password)
	if err != nil {
		return nil, err
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}
	sshCfg := &ssh.ClientConfig{
		User: cfg.User,
		Auth: auth,
		// The web host's key is not pinned; the transfer carries only
		// public site content.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         cfg.DialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, port)
	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("starting sftp session: %w", err)
	}

	return &sftpRemote{conn: conn, client: client, root: cfg.RemotePath}, nil
}

func authMethods(keyFile, password string) ([]ssh.AuthMethod, error) {
	if keyFile != "" {
		pem, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("parsing key file %s: %w", keyFile, err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	if password == "" {
		return nil, fmt.Errorf("no key file configured and no deploy password available")
	}
	return []ssh.AuthMethod{ssh.Password(password)}, nil
}

type sftpRemote struct {
	conn   *ssh.Client
	client *sftp.Client
	root   string
}

func (r *sftpRemote) MkdirAll(dir string) error {
	return r.client.MkdirAll(path.Join(r.root, dir))
}

func (r *sftpRemote) Upload(local, rel string) error {
	in, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("opening %s: %w", local, err)
	}
	defer in.Close()

	target := path.Join(r.root, rel)
	out, err := r.client.Create(target)
	if err != nil {
		return fmt.Errorf("creating remote %s: %w", target, err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("uploading %s: %w", rel, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing remote %s: %w", rel, closeErr)
	}
	return nil
}

func (r *sftpRemote) List() ([]string, error) {
	var files []string
	walker := r.client.Walk(r.root)
	for walker.Step() {
		if err := walker.Err(); err != nil {
			return nil, fmt.Errorf("listing remote files: %w", err)
		}
		if walker.Stat().IsDir() {
			continue
		}
		rel, err := relSlash(r.root, walker.Path())
		if err != nil {
			return nil, err
		}
		files = append(files, rel)
	}
	return files, nil
}

func relSlash(root, p string) (string, error) {
	if root != "" && len(p) > len(root) && p[:len(root)] == root {
		rel := p[len(root):]
		for len(rel) > 0 && rel[0] == '/' {
			rel = rel[1:]
		}
		return rel, nil
	}
	return "", fmt.Errorf("remote path %s outside root %s", p, root)
}

func (r *sftpRemote) Remove(rel string) error {
	return r.client.Remove(path.Join(r.root, rel))
}

func (r *sftpRemote) Close() error {
	clientErr := r.client.Close()
	connErr := r.conn.Close()
	if clientErr != nil {
		return clientErr
	}
	return connErr
}
