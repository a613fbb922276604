package arduino

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tarm/serial"
)

// ответ Arduino об успешном выполнении команды
const responseReceived = "received"

func InitializePort(name string, baud int) (*serial.Port, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:     name,
		Baud:     baud,
		Parity:   serial.ParityNone,
		StopBits: serial.Stop1,
	})
	return port, err
}

func writeMessage(port io.Writer, message string) error {
	_, err := port.Write([]byte(message))
	if err != nil {
		return fmt.Errorf("error writing to Arduino: %w", err)
	}
	return nil
}

func SendMoveToArduino(port io.Writer, x, y int) error {
	return writeMessage(port, fmt.Sprintf("move:%d,%d\n", x, y))
}

func SendClickToArduino(port io.Writer, button string, count int) error {
	return writeMessage(port, fmt.Sprintf("click:%s,%d\n", button, count))
}

func SendKeyDownToArduino(port io.Writer, key string) error {
	return writeMessage(port, fmt.Sprintf("key_down:%s\n", key))
}

func SendKeyUpToArduino(port io.Writer, key string) error {
	return writeMessage(port, fmt.Sprintf("key_up:%s\n", key))
}

// SendTextToClipboard передает текст для буфера обмена; переводы строк экранируются,
// так как протокол построчный
func SendTextToClipboard(port io.Writer, text string) error {
	escaped := strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`).Replace(text)
	return writeMessage(port, fmt.Sprintf("copy_to_clipboard:%s\n", escaped))
}

func SendPositionRequestToArduino(port io.Writer) error {
	return writeMessage(port, "position\n")
}

// ReadResponseLine читает одну строку ответа без перевода строки и пробелов по краям
func ReadResponseLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("error reading from Arduino: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func WaitForArduinoResponse(reader *bufio.Reader, expectedResponse string) (string, error) {
	response, err := ReadResponseLine(reader)
	if err != nil {
		return "", err
	}
	if response != expectedResponse {
		return "", fmt.Errorf("unexpected response: '%s'", response)
	}
	return response, nil
}

// ParsePosition разбирает ответ вида "pos:x,y"
func ParsePosition(response string) (int, int, error) {
	var x, y int
	if _, err := fmt.Sscanf(response, "pos:%d,%d", &x, &y); err != nil {
		return 0, 0, fmt.Errorf("unexpected position response: '%s'", response)
	}
	return x, y, nil
}
